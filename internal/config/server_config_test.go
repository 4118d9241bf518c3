package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := config.ServiceConfigFromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ledger.DefaultType, cfg.Ledger.Type)
	assert.Equal(t, ledger.DefaultPath, cfg.Ledger.Path)
	assert.Equal(t, ledger.DefaultAttempts, cfg.Ledger.Attempts)
	assert.Equal(t, ledger.DefaultDelay, cfg.Ledger.Delay)
	assert.Zero(t, cfg.Ledger.SignTimeout)
	assert.Equal(t, ":8080", cfg.Echo.ListenAddress)
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.ZerologLevel())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEDGER_SIGNER_LEDGER_TYPE", "emulator")
	t.Setenv("LEDGER_SIGNER_LEDGER_SIGN_TIMEOUT", "30s")
	t.Setenv("LEDGER_SIGNER_LEDGER_VERIFY_SENDER", "true")
	t.Setenv("LEDGER_SIGNER_RPC_URLS", "http://a:8545,http://b:8545")
	t.Setenv("LEDGER_SIGNER_LOGGER_LEVEL", "WARN")
	t.Setenv("LEDGER_SIGNER_EMULATOR_MNEMONIC", "secret words")

	cfg, err := config.ServiceConfigFromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "emulator", cfg.Ledger.Type)
	assert.Equal(t, 30*time.Second, cfg.Ledger.SignTimeout)
	assert.True(t, cfg.Ledger.VerifySender)
	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, cfg.RPC.URLs)
	assert.Equal(t, zerolog.WarnLevel, cfg.Logger.ZerologLevel())

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret words")
}

func TestConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "signer.yaml")
	require.NoError(t, os.WriteFile(file, []byte("ledger:\n  path: m/44'/60'/1'/0/0\n  attempts: 5\n"), 0o600))
	t.Setenv("LEDGER_SIGNER_CONFIG_FILE", file)

	cfg, err := config.ServiceConfigFromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "m/44'/60'/1'/0/0", cfg.Ledger.Path)
	assert.Equal(t, 5, cfg.Ledger.Attempts)
}

func TestDotEnvLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(file, []byte("LEDGER_SIGNER_LEDGER_TYPE=bridge\n"), 0o600))

	got := map[string]string{}
	err := config.DotEnvLoad(file, func(key string, value string) error {
		got[key] = value
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"LEDGER_SIGNER_LEDGER_TYPE": "bridge"}, got)

	err = config.DotEnvLoad(filepath.Join(t.TempDir(), "missing"), nil)
	require.True(t, os.IsNotExist(err))
}
