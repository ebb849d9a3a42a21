package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// DefaultFilePath is used when no configuration file is given on the command line.
const DefaultFilePath = "/etc/yadex/config.yaml"

const envPrefix = "YADEX_"

type Config struct {
	LogLevel string         `koanf:"log_level" default:"info" validate:"oneof=debug info warn error"`
	Network  NetworkConfig  `koanf:"network"`
	Template TemplateConfig `koanf:"template"`
	Service  ServiceConfig  `koanf:"service"`
	Metrics  MetricsConfig  `koanf:"metrics"`

	// ConfigDir is the directory of the loaded configuration file. Template
	// paths are resolved relative to it.
	ConfigDir string `koanf:"-"`
}

type NetworkConfig struct {
	Address string `koanf:"address" default:"0.0.0.0" validate:"ip"`
	Port    int    `koanf:"port" default:"8080" validate:"min=1,max=65535"`
}

// TemplateConfig holds template paths relative to the configuration file's
// directory.
type TemplateConfig struct {
	IndexFile string `koanf:"index_file" default:"templates/index.html" validate:"required"`
	ErrorFile string `koanf:"error_file" default:"templates/error.html" validate:"required"`
}

type ServiceConfig struct {
	// Limit is the maximum number of entries enumerated per request. Zero
	// means unbounded.
	Limit int    `koanf:"limit" default:"1000" validate:"min=0"`
	Root  string `koanf:"root" validate:"required,startswith=/"`
}

// MetricsConfig configures the optional Prometheus listener. A zero port
// disables it.
type MetricsConfig struct {
	Address string `koanf:"address" default:"127.0.0.1" validate:"ip"`
	Port    int    `koanf:"port" validate:"min=0,max=65535"`
}

// New loads the configuration file at path and applies YADEX_* environment
// overrides on top of it, e.g. YADEX_SERVICE_LIMIT overrides service.limit.
func New(path string) (*Config, error) {
	if path == "" {
		path = DefaultFilePath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(absPath), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %s", absPath)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load config from environment")
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	cfg.ConfigDir = filepath.Dir(absPath)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a valid configuration rooted at root without reading any
// file.
func NewForTest(root string) *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.Network.Address = "127.0.0.1"
	cfg.Service.Root = root
	cfg.ConfigDir = "."
	return cfg
}

// envKey maps YADEX_SERVICE_ROOT to service.root and
// YADEX_TEMPLATE_INDEX_FILE to template.index_file.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if strings.HasPrefix(key, "log_") {
		return key
	}
	return strings.Replace(key, "_", ".", 1)
}

func (cfg *Config) validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("koanf")
		if name == "-" {
			return ""
		}
		return name
	})
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WithStack(err)
	}

	fe := verrs[0]
	key := configKey(fe.Namespace())
	envName := envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if fe.Tag() == "required" {
		return errors.Errorf("missing required config: set %s or %s in the config file", envName, key)
	}
	return errors.Errorf("invalid config value for %s (%s): failed %q check", key, envName, fe.Tag())
}

// configKey turns a validator namespace such as "Config.service.root" into the
// koanf key "service.root".
func configKey(namespace string) string {
	parts := strings.SplitN(namespace, ".", 2)
	if len(parts) < 2 {
		return namespace
	}
	return parts[1]
}
