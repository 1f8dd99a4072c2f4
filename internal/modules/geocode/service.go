package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgredis "github.com/geojournal/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// Service resolves coordinates to place names against a Nominatim-compatible
// reverse geocoding endpoint. Results are cached in Redis keyed by the
// coordinate pair rounded to four decimals (roughly ten meters).
type Service struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	rc         *pkgredis.Client
	ttl        time.Duration
	log        *zap.Logger
}

func NewService(endpoint, userAgent string, rc *pkgredis.Client, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		rc:         rc,
		ttl:        ttl,
		log:        log,
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		Road    string `json:"road"`
		Village string `json:"village"`
		Town    string `json:"town"`
		City    string `json:"city"`
		State   string `json:"state"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
}

// placeName picks the most specific usable component: street, then
// locality, then administrative area.
func (r *reverseResponse) placeName() string {
	addr := r.Address
	for _, candidate := range []string{addr.Road, addr.Village, addr.Town, addr.City, addr.State} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// ReverseGeocode resolves the coordinate pair to a place name. Returns an
// empty string when the resolver has nothing usable for the location.
func (s *Service) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	key := cacheKey(lat, lon)
	if s.rc != nil {
		if cached, err := s.rc.Get(ctx, key); err == nil && cached != "" {
			return cached, nil
		}
	}

	name, err := s.lookup(ctx, lat, lon)
	if err != nil {
		return "", err
	}

	if s.rc != nil && name != "" {
		if err := s.rc.Set(ctx, key, name, s.ttl); err != nil {
			s.log.Warn("failed to cache geocode result", zap.String("key", key), zap.Error(err))
		}
	}
	return name, nil
}

func (s *Service) lookup(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("reverse geocode: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("reverse geocode: decode response: %w", err)
	}
	// Nominatim reports "unable to geocode" for open ocean; that is not a
	// transport failure, just an unnamed place.
	if parsed.Error != "" {
		return "", nil
	}
	return parsed.placeName(), nil
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("gj:geo:%.4f,%.4f", lat, lon)
}
