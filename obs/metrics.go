package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pricingOnce sync.Once

	// ConfigCacheHits counts configuration reads served without a full fetch,
	// labelled by kind and by the layer that answered (memory or store).
	ConfigCacheHits *prometheus.CounterVec
	// ConfigCacheMisses counts configuration reads that required a fetch.
	ConfigCacheMisses *prometheus.CounterVec
	// ConfigFetchFailures counts failed remote configuration fetches by kind.
	ConfigFetchFailures *prometheus.CounterVec
	// ConfigFallbacks counts calculations served on stale or default
	// configuration after a fetch failure.
	ConfigFallbacks *prometheus.CounterVec
	// ConfigVersionEvictions counts tier-set evictions triggered by a
	// server-reported version bump.
	ConfigVersionEvictions prometheus.Counter
)

// MustRegisterPricingMetrics initialises and registers the pricing
// configuration collectors. Safe to call once per process; callers that
// skip it run without metrics.
func MustRegisterPricingMetrics(namespace string, reg prometheus.Registerer) {
	pricingOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ConfigCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_config_cache_hits_total",
			Help:      "Configuration reads answered from cache by kind and layer.",
		}, []string{"kind", "layer"})
		ConfigCacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_config_cache_misses_total",
			Help:      "Configuration reads that required a remote fetch.",
		}, []string{"kind"})
		ConfigFetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_config_fetch_failures_total",
			Help:      "Failed remote configuration fetches by kind.",
		}, []string{"kind"})
		ConfigFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_config_fallbacks_total",
			Help:      "Reads served on stale or default configuration by kind and mode.",
		}, []string{"kind", "mode"})
		ConfigVersionEvictions = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_config_version_evictions_total",
			Help:      "Tier-set cache evictions caused by a version bump.",
		})
		reg.MustRegister(
			ConfigCacheHits,
			ConfigCacheMisses,
			ConfigFetchFailures,
			ConfigFallbacks,
			ConfigVersionEvictions,
		)
	})
}
