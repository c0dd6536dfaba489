package shopconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultFetchTimeout bounds a single configuration request so a slow
// backend never blocks checkout indefinitely. A timeout counts as a fetch
// failure and the cache falls back.
const DefaultFetchTimeout = 3 * time.Second

// HTTPSource fetches configuration from the backend's JSON endpoints.
// Responses are validated before use; a malformed payload is treated the
// same as an unreachable backend.
type HTTPSource struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
}

// NewHTTPSource constructs a source for the given base URL. A non-positive
// timeout uses DefaultFetchTimeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPSource{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:   &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// ShippingConfig fetches the shipping policy.
func (s *HTTPSource) ShippingConfig(ctx context.Context) (ShippingConfig, error) {
	var payload ShippingConfig
	if err := s.getJSON(ctx, "/shipping-config", &payload); err != nil {
		return ShippingConfig{}, err
	}
	if err := s.validate.Struct(payload); err != nil {
		return ShippingConfig{}, fmt.Errorf("invalid shipping-config payload: %w", err)
	}
	return payload, nil
}

// VolumeDiscountConfig fetches the volume-discount tiers.
func (s *HTTPSource) VolumeDiscountConfig(ctx context.Context) (VolumeDiscountConfig, error) {
	var payload VolumeDiscountConfig
	if err := s.getJSON(ctx, "/volume-discount-config", &payload); err != nil {
		return VolumeDiscountConfig{}, err
	}
	if err := s.validate.Struct(payload); err != nil {
		return VolumeDiscountConfig{}, fmt.Errorf("invalid volume-discount-config payload: %w", err)
	}
	return payload, nil
}

// VolumeDiscountVersion fetches the monotonically increasing tier version.
func (s *HTTPSource) VolumeDiscountVersion(ctx context.Context) (int64, error) {
	var payload struct {
		Version int64 `json:"version" validate:"gte=0"`
	}
	if err := s.getJSON(ctx, "/volume-discount-version", &payload); err != nil {
		return 0, err
	}
	if err := s.validate.Struct(payload); err != nil {
		return 0, fmt.Errorf("invalid volume-discount-version payload: %w", err)
	}
	return payload.Version, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, dst any) error {
	if s == nil || s.baseURL == "" {
		return fmt.Errorf("config source not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
