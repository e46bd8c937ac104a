package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".poolify"
	envPrefix  = "POOLIFY"

	keyStorageBackend   = "storage.backend"
	keyStoragePath      = "storage.path"
	keyIdentityProvider = "identity.provider"
	keyIdentityID       = "identity.id"
	keyIdentityEmail    = "identity.email"
	keyIdentityName     = "identity.display_name"
	keyDefaultHostel    = "session.default_hostel"
	keyLogLevel         = "log.level"
	keyDashboardTick    = "dashboard.tick"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	ProviderNone   = "none"
	ProviderStatic = "static"
)

var defaultStoreFiles = map[string]string{
	BackendFile:   "store.toml",
	BackendSQLite: "store.db",
}

type Config struct {
	Dir           string
	Storage       Storage
	Identity      Identity
	DefaultHostel string
	LogLevel      string
	Tick          time.Duration
}

type Storage struct {
	Backend string
	Path    string
}

type Identity struct {
	Provider string
	User     domain.Identity
}

// Load reads ~/.poolify/config.toml, then POOLIFY_* environment variables, then
// defaults. An optional .env in the working directory is loaded into the
// environment first.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keyStorageBackend, BackendFile)
	cfg.SetDefault(keyStoragePath, "")
	cfg.SetDefault(keyIdentityProvider, ProviderNone)
	cfg.SetDefault(keyIdentityID, "")
	cfg.SetDefault(keyIdentityEmail, "")
	cfg.SetDefault(keyIdentityName, "")
	cfg.SetDefault(keyDefaultHostel, domain.DefaultHostel)
	cfg.SetDefault(keyLogLevel, "warn")
	cfg.SetDefault(keyDashboardTick, time.Second)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.GetString(keyStorageBackend)))
	defaultFile, ok := defaultStoreFiles[backend]
	if !ok {
		return Config{}, fmt.Errorf("unsupported storage backend %q", backend)
	}

	storePath := strings.TrimSpace(cfg.GetString(keyStoragePath))
	if storePath == "" {
		storePath = filepath.Join(dir, defaultFile)
	}
	storePath, err = expandHome(storePath, homeDir)
	if err != nil {
		return Config{}, err
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.GetString(keyIdentityProvider)))
	if provider != ProviderNone && provider != ProviderStatic {
		return Config{}, fmt.Errorf("unsupported identity provider %q", provider)
	}

	tick := cfg.GetDuration(keyDashboardTick)
	if tick <= 0 {
		return Config{}, fmt.Errorf("dashboard tick must be positive, got %q", cfg.GetString(keyDashboardTick))
	}

	return Config{
		Dir:     dir,
		Storage: Storage{Backend: backend, Path: storePath},
		Identity: Identity{
			Provider: provider,
			User: domain.Identity{
				ID:          strings.TrimSpace(cfg.GetString(keyIdentityID)),
				Email:       strings.TrimSpace(cfg.GetString(keyIdentityEmail)),
				DisplayName: strings.TrimSpace(cfg.GetString(keyIdentityName)),
			},
		},
		DefaultHostel: strings.TrimSpace(cfg.GetString(keyDefaultHostel)),
		LogLevel:      strings.TrimSpace(cfg.GetString(keyLogLevel)),
		Tick:          tick,
	}, nil
}

func expandHome(path, homeDir string) (string, error) {
	if path == "~" {
		return homeDir, nil
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}
	return filepath.Clean(absPath), nil
}
