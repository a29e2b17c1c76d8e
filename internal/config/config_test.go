package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PHYSICAL_DEVICE", "")

	cfg := LoadConfig()
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.True(t, cfg.PhysicalDevice)
	assert.False(t, cfg.StrictPersistence)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendRedis)
	t.Setenv("PHYSICAL_DEVICE", "false")
	t.Setenv("STRICT_PERSISTENCE", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OWNER_USER_ID", "user-1")

	cfg := LoadConfig()
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.False(t, cfg.PhysicalDevice)
	assert.True(t, cfg.StrictPersistence)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "user-1", cfg.OwnerUserID)
	require.NoError(t, cfg.Validate())
}

func TestValidate_RequiresSecretAndOwner(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMongo)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OWNER_USER_ID", "")

	err := LoadConfig().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "OWNER_USER_ID")
}

func TestLoadConfig_MemoryBackendDevelopmentDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OWNER_USER_ID", "")

	cfg := LoadConfig()
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, devOwnerID, cfg.OwnerUserID)
	assert.NoError(t, cfg.Validate())
}
