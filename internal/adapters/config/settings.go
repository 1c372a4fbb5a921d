package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Setting keys shared by flags, environment variables and the user config file.
const (
	KeyVerbosity    = "verbosity"
	KeyMode         = "mode"
	KeyJSON         = "json"
	KeyForceRebuild = "force-rebuild"
	KeyClearCache   = "clear-cache"
	KeyCacheDir     = "cache-dir"
	KeyOptions      = "options"
)

// EnvPrefix is the prefix of environment variables read as settings,
// e.g. CBUILD_FORCE_REBUILD.
const EnvPrefix = "CBUILD"

var settingKeys = []string{
	KeyVerbosity, KeyMode, KeyJSON, KeyForceRebuild, KeyClearCache, KeyCacheDir, KeyOptions,
}

// SettingsLoader layers the run settings. Later layers win: defaults, the
// user config file, CBUILD_* environment variables, then command line flags.
type SettingsLoader struct {
	v         *viper.Viper
	configDir string
}

// NewSettingsLoaderAt creates a loader that reads <dir>/cbuild/config.yaml.
// An empty dir skips the user config.
func NewSettingsLoaderAt(dir string) *SettingsLoader {
	v := viper.New()
	v.SetDefault(KeyVerbosity, domain.DefaultVerbosity.String())
	v.SetDefault(KeyMode, "")
	v.SetDefault(KeyJSON, false)
	v.SetDefault(KeyForceRebuild, false)
	v.SetDefault(KeyClearCache, false)
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyOptions, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &SettingsLoader{v: v, configDir: dir}
}

// BindFlags binds every flag in fs whose name is a setting key.
func (s *SettingsLoader) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range settingKeys {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := s.v.BindPFlag(key, flag); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to bind flag"), "flag", key)
		}
	}
	return nil
}

// ConfigFile returns the path of the user config file, or "" when none is used.
func (s *SettingsLoader) ConfigFile() string {
	if s.configDir == "" {
		return ""
	}
	return filepath.Join(s.configDir, "cbuild", "config.yaml")
}

// Load resolves the layered settings.
func (s *SettingsLoader) Load() (domain.Settings, error) {
	if path := s.ConfigFile(); path != "" {
		if _, err := os.Stat(path); err == nil {
			s.v.SetConfigFile(path)
			if err := s.v.ReadInConfig(); err != nil {
				return domain.Settings{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err),
					"failed to read user config"), "path", path)
			}
		}
	}

	verbosity, err := domain.ParseVerbosity(s.v.GetString(KeyVerbosity))
	if err != nil {
		return domain.Settings{}, err
	}

	mode := domain.BuildMode(strings.ToLower(strings.TrimSpace(s.v.GetString(KeyMode))))
	if mode != "" && !mode.Valid() {
		return domain.Settings{}, zerr.With(zerr.Wrap(domain.ErrInvalidBuildMode, "failed to load settings"),
			"mode", string(mode))
	}

	return domain.Settings{
		Verbosity:    verbosity,
		Mode:         mode,
		JSON:         s.v.GetBool(KeyJSON),
		ForceRebuild: s.v.GetBool(KeyForceRebuild),
		ClearCache:   s.v.GetBool(KeyClearCache),
		CacheDir:     s.v.GetString(KeyCacheDir),
		Options:      s.v.GetStringSlice(KeyOptions),
	}, nil
}
