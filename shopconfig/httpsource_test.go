package shopconfig

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func configServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/shipping-config", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"enabled":true,"freeThreshold":50,"defaultCost":5}`))
	})
	mux.HandleFunc("/volume-discount-config", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"enabled":true,"tiers":[{"quantity":3,"discount":5,"label":"3+"}],"stackable":false}`))
	})
	mux.HandleFunc("/volume-discount-version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":7}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSourceFetchesAllKinds(t *testing.T) {
	srv := configServer(t)
	src := NewHTTPSource(srv.URL, time.Second)
	ctx := context.Background()

	shipping, err := src.ShippingConfig(ctx)
	if err != nil {
		t.Fatalf("shipping config: %v", err)
	}
	if !shipping.Enabled || shipping.FreeThreshold != 50 || shipping.DefaultCost != 5 {
		t.Fatalf("unexpected shipping payload %+v", shipping)
	}

	tiers, err := src.VolumeDiscountConfig(ctx)
	if err != nil {
		t.Fatalf("volume config: %v", err)
	}
	if len(tiers.Tiers) != 1 || tiers.Tiers[0].Label != "3+" {
		t.Fatalf("unexpected tier payload %+v", tiers)
	}

	version, err := src.VolumeDiscountVersion(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 7 {
		t.Fatalf("expected version 7, got %d", version)
	}
}

func TestHTTPSourceRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, time.Second)
	if _, err := src.ShippingConfig(context.Background()); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestHTTPSourceRejectsInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"enabled":true,"freeThreshold":-1,"defaultCost":5}`))
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, time.Second)
	if _, err := src.ShippingConfig(context.Background()); err == nil {
		t.Fatal("a negative threshold must be treated as a fetch failure")
	}
}

func TestHTTPSourceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, 50*time.Millisecond)
	if _, err := src.ShippingConfig(context.Background()); err == nil {
		t.Fatal("expected a timeout error for a slow backend")
	}
}
