package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github/chapool/ledger-signer/internal/ledger"
)

// EnvPrefix is prepended to every environment variable, e.g. LEDGER_SIGNER_LEDGER_TYPE.
const EnvPrefix = "LEDGER_SIGNER"

type EchoServer struct {
	Debug                     bool   `mapstructure:"debug"`
	ListenAddress             string `mapstructure:"listen_address"`
	EnableRecoverMiddleware   bool   `mapstructure:"enable_recover_middleware"`
	EnableRequestIDMiddleware bool   `mapstructure:"enable_request_id_middleware"`
	EnableTrailingSlash       bool   `mapstructure:"enable_trailing_slash"`
}

type LoggerServer struct {
	Level              string `mapstructure:"level"`
	RequestLevel       string `mapstructure:"request_level"`
	PrettyPrintConsole bool   `mapstructure:"pretty_print_console"`
}

// ZerologLevel parses Level, falling back to debug.
func (l LoggerServer) ZerologLevel() zerolog.Level {
	return parseLevel(l.Level, zerolog.DebugLevel)
}

// ZerologRequestLevel parses RequestLevel, falling back to info.
func (l LoggerServer) ZerologRequestLevel() zerolog.Level {
	return parseLevel(l.RequestLevel, zerolog.InfoLevel)
}

type LedgerServer struct {
	// Type selects the transport: "default" or "bridge" for the bridge daemon, "emulator" for the in-process emulator
	Type         string        `mapstructure:"type"`
	Path         string        `mapstructure:"path"`
	BridgeURL    string        `mapstructure:"bridge_url"`
	Attempts     int           `mapstructure:"attempts"`
	Delay        time.Duration `mapstructure:"delay"`
	SignTimeout  time.Duration `mapstructure:"sign_timeout"`
	VerifySender bool          `mapstructure:"verify_sender"`
}

type EmulatorServer struct {
	Mnemonic         string        `mapstructure:"mnemonic" json:"-"` // sensitive
	Passphrase       string        `mapstructure:"passphrase" json:"-"`
	KeystoreFile     string        `mapstructure:"keystore_file"`
	KeystorePassword string        `mapstructure:"keystore_password" json:"-"`
	Version          string        `mapstructure:"version"`
	ConfirmDelay     time.Duration `mapstructure:"confirm_delay"`
	ListenAddress    string        `mapstructure:"listen_address"`
}

type RPCServer struct {
	URLs []string `mapstructure:"urls"`
}

type Server struct {
	Logger   LoggerServer   `mapstructure:"logger"`
	Echo     EchoServer     `mapstructure:"echo"`
	Ledger   LedgerServer   `mapstructure:"ledger"`
	Emulator EmulatorServer `mapstructure:"emulator"`
	RPC      RPCServer      `mapstructure:"rpc"`
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in the working directory is automatically applied, but not while testing.
	if !testing.Testing() {
		DotEnvTryLoad(".env.local", os.Setenv)
	}

	cfg, err := ServiceConfigFromViper(viper.New())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load service config")
	}

	return cfg
}

// ServiceConfigFromViper binds v to the environment, reads the optional config file named by
// LEDGER_SIGNER_CONFIG_FILE and decodes the result.
func ServiceConfigFromViper(v *viper.Viper) (Server, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Server{}, errors.Wrapf(err, "failed to read config file %s", file)
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, errors.Wrap(err, "failed to decode config")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.request_level", "info")
	v.SetDefault("logger.pretty_print_console", false)

	v.SetDefault("echo.debug", false)
	v.SetDefault("echo.listen_address", ":8080")
	v.SetDefault("echo.enable_recover_middleware", true)
	v.SetDefault("echo.enable_request_id_middleware", true)
	v.SetDefault("echo.enable_trailing_slash", true)

	v.SetDefault("ledger.type", ledger.DefaultType)
	v.SetDefault("ledger.path", ledger.DefaultPath)
	v.SetDefault("ledger.bridge_url", "http://127.0.0.1:8546")
	v.SetDefault("ledger.attempts", ledger.DefaultAttempts)
	v.SetDefault("ledger.delay", ledger.DefaultDelay)
	v.SetDefault("ledger.sign_timeout", time.Duration(0))
	v.SetDefault("ledger.verify_sender", false)

	v.SetDefault("emulator.mnemonic", "")
	v.SetDefault("emulator.passphrase", "")
	v.SetDefault("emulator.keystore_file", "")
	v.SetDefault("emulator.keystore_password", "")
	v.SetDefault("emulator.version", "")
	v.SetDefault("emulator.confirm_delay", time.Duration(0))
	v.SetDefault("emulator.listen_address", "127.0.0.1:8546")

	v.SetDefault("rpc.urls", []string{})
}

func parseLevel(level string, fallback zerolog.Level) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return fallback
	}
	return parsed
}
