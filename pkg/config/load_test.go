package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionauth/pkg/config"
)

type sample struct {
	Name string `yaml:"name" env:"SAMPLE_NAME" env-default:"default-name"`
	Port int    `yaml:"port" env:"SAMPLE_PORT" env-default:"8080"`
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")

	cfg, err := config.Load[sample](context.Background(), "test", "")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_MissingFileFallsBackToEnvironment(t *testing.T) {
	cfg, err := config.Load[sample](context.Background(), "test", filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "default-name", cfg.Name)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nport: 9090\n"), 0o600))

	cfg, err := config.Load[sample](context.Background(), "test", path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "not-a-number")

	_, err := config.Load[sample](context.Background(), "test", "")
	require.Error(t, err)
}
