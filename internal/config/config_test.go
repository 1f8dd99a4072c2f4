package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, 2333, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 5*time.Second, cfg.PipelineGrace())
	assert.Equal(t, 3*time.Second, cfg.GeocodeTimeout())
}

// The geocode client appends /reverse to the configured endpoint, so the
// default must stop at the service root.
func TestDefaultGeocoderEndpointIsServiceRoot(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoder.Endpoint)
	assert.NotContains(t, cfg.Geocoder.Endpoint, "/reverse")
}

func TestLoadOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
env: production
pipeline:
  grace_seconds: 12
geocoder:
  endpoint: http://geo.internal:7070/
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 12*time.Second, cfg.PipelineGrace())
	assert.Equal(t, "http://geo.internal:7070/", cfg.Geocoder.Endpoint)
}
