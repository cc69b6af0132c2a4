package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/toyz/wrapgen/internal/backend/csharp"
	"github.com/toyz/wrapgen/internal/backend/golang"
	"github.com/toyz/wrapgen/internal/backend/java"
	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/utils"
	"github.com/toyz/wrapgen/internal/wrapper"
)

// DefaultConfigName is looked up in the working directory when no --config is given
const DefaultConfigName = "wrapgen"

// Config holds the configuration for the CLI generator
type Config struct {
	// SourceDir holds one TypeScript source per exchange
	SourceDir string `mapstructure:"source_dir"`
	// BaseFile is the base type source, relative to SourceDir
	BaseFile  string `mapstructure:"base_file"`
	BaseClass string `mapstructure:"base_class"`

	// Catalog replaces TypeScript extraction with a YAML descriptor catalog
	Catalog string `mapstructure:"catalog"`

	OutputDir   string   `mapstructure:"output_dir"`
	Backends    []string `mapstructure:"backends"`
	Exchanges   []string `mapstructure:"exchanges"`
	Concurrency int      `mapstructure:"concurrency"`

	Go     GoConfig      `mapstructure:"go"`
	CSharp CSharpConfig  `mapstructure:"csharp"`
	Java   JavaConfig    `mapstructure:"java"`
	Patch  []PatchConfig `mapstructure:"patches"`
	Log    LogConfig     `mapstructure:"log"`
}

// GoConfig configures the Go backend. An empty Package is resolved from go.mod.
type GoConfig struct {
	Package string `mapstructure:"package"`
}

type CSharpConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type JavaConfig struct {
	Package string `mapstructure:"package"`
}

// PatchConfig is one regex rewrite applied to a backend's output
type PatchConfig struct {
	Backend string `mapstructure:"backend"`
	Pattern string `mapstructure:"pattern"`
	Replace string `mapstructure:"replace"`
}

type LogConfig struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// exchangeIDPattern matches the identifiers derived from source file names
const exchangeIDPattern = `^[a-z0-9_]+$`

// flagKeys maps command-line flags onto config keys
var flagKeys = map[string]string{
	"source":      "source_dir",
	"base-file":   "base_file",
	"base-class":  "base_class",
	"catalog":     "catalog",
	"out":         "output_dir",
	"backends":    "backends",
	"exchanges":   "exchanges",
	"concurrency": "concurrency",
	"go-package":  "go.package",
	"verbose":     "log.verbose",
	"json-logs":   "log.json",
}

// SetDefaults registers every key with its default so env overrides apply
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source_dir", "ts/src")
	v.SetDefault("base_file", "base/Exchange.ts")
	v.SetDefault("base_class", "Exchange")
	v.SetDefault("catalog", "")
	v.SetDefault("output_dir", "build/wrappers")
	v.SetDefault("backends", []string{csharp.Name, golang.Name, java.Name})
	v.SetDefault("exchanges", []string{})
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("go.package", "")
	v.SetDefault("csharp.namespace", "ccxt")
	v.SetDefault("java.package", "io.github.ccxt")
	v.SetDefault("patches", []PatchConfig{})
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)
}

// LoadConfig reads defaults, the config file, WRAPGEN_* environment variables
// and changed flags, in increasing precedence. configFile may be empty, in
// which case an optional wrapgen.yaml in the working directory is used.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("WRAPGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapConfigurationError("config file", "read", err).
				WithContext("path", configFile)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.WrapConfigurationError("config file", "read", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, errors.WrapConfigurationError("flags", "bind", err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError("config", "decode", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type configCheck struct {
	err        error
	suggestion string
}

// Validate checks the configuration and fills derived defaults
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}

	checks := []configCheck{
		{utils.NotEmpty("output_dir")(c.OutputDir), "set output_dir or pass --out"},
		{utils.NewValidatorChain(
			utils.SliceNotEmpty[string]("backends"),
			utils.ValidateEach("backends", utils.IsOneOf("backend", csharp.Name, golang.Name, java.Name)),
		).Validate(c.Backends), "supported backends are csharp, go and java"},
		{utils.ValidateEach("exchanges", utils.MatchesRegex("exchange", exchangeIDPattern))(c.Exchanges), "exchange identifiers are lower-case source file names such as binance"},
		{utils.IsQualifiedName("csharp.namespace")(c.CSharp.Namespace), "use a dotted namespace such as ccxt"},
		{utils.IsQualifiedName("java.package")(c.Java.Package), "use a dotted package such as io.github.ccxt"},
	}
	if c.Catalog == "" {
		checks = append(checks, configCheck{utils.NotEmpty("source_dir")(c.SourceDir), "set source_dir or provide a catalog"})
	}
	if c.Go.Package != "" {
		checks = append(checks, configCheck{utils.IsValidGoIdentifier("go.package")(c.Go.Package), "leave go.package empty to derive it from go.mod"})
	}

	for _, check := range checks {
		if check.err == nil {
			continue
		}
		err := errors.WrapConfigurationError("config", "validate", check.err)
		if check.suggestion != "" {
			err = err.WithSuggestion(check.suggestion)
		}
		return err
	}

	_, err := c.Patches()
	return err
}

// Patches compiles the configured patches
func (c *Config) Patches() ([]wrapper.Patch, error) {
	backendValidator := utils.IsOneOf("patches.backend", csharp.Name, golang.Name, java.Name)

	patches := make([]wrapper.Patch, 0, len(c.Patch))
	for i, p := range c.Patch {
		if err := backendValidator(p.Backend); err != nil {
			return nil, errors.WrapConfigurationError("patches", "validate", err)
		}
		if err := utils.CompilesAsRegex(fmt.Sprintf("patches[%d].pattern", i))(p.Pattern); err != nil {
			return nil, errors.WrapConfigurationError("patches", "validate", err).
				WithSuggestion("patterns use Go RE2 syntax; escape literal braces and parentheses")
		}
		patch, err := wrapper.CompilePatch(p.Backend, p.Pattern, p.Replace)
		if err != nil {
			return nil, err
		}
		patches = append(patches, patch)
	}
	return patches, nil
}

// HasBackend reports whether name is among the configured backends
func (c *Config) HasBackend(name string) bool {
	for _, b := range c.Backends {
		if b == name {
			return true
		}
	}
	return false
}
