// Package config loads examiz settings from an optional YAML file,
// EXAMIZ_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/llm"
	"github.com/abhisek/examiz/internal/logging"
	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/scoring"
	"github.com/abhisek/examiz/internal/tutor"
)

// EnvPrefix prefixes every environment override, e.g. EXAMIZ_EXAM_PASS_THRESHOLD.
const EnvPrefix = "EXAMIZ"

// Question source kinds for BankConfig.Source.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceBank     = "bank"
	SourceSQLite   = "sqlite"
	SourceHTTP     = "http"
)

type Config struct {
	Exam   ExamConfig     `mapstructure:"exam"`
	Bank   BankConfig     `mapstructure:"bank"`
	Server ServerConfig   `mapstructure:"server"`
	Log    logging.Config `mapstructure:"log"`
	LLM    llm.Config     `mapstructure:"llm"`
	Tutor  tutor.Config   `mapstructure:"tutor"`
	DB     DBConfig       `mapstructure:"db"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type ExamConfig struct {
	scoring.Policy `mapstructure:",squash"`

	// DefaultLength preselects the length picker.
	DefaultLength int `mapstructure:"default_length"`
	// Seed fixes question selection. Zero picks a new seed per test.
	Seed uint64 `mapstructure:"seed"`
}

type BankConfig struct {
	Source  string             `mapstructure:"source"`
	Path    string             `mapstructure:"path"`
	URL     string             `mapstructure:"url"`
	Weights map[string]float64 `mapstructure:"weights"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	// RateLimit is requests per RateWindow per client. Zero disables it.
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

type DBConfig struct {
	// Path is the SQLite file. Empty resolves to the XDG data directory.
	Path string `mapstructure:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Exam: ExamConfig{
			Policy:        scoring.DefaultPolicy(),
			DefaultLength: question.LengthShort.Int(),
		},
		Bank: BankConfig{
			Source:  SourceEmbedded,
			Weights: bank.DefaultWeights.Map(),
		},
		Server: ServerConfig{
			Addr:           ":5000",
			Mode:           "release",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit:      120,
			RateWindow:     time.Minute,
		},
		Log:   logging.DefaultConfig(),
		LLM:   llm.DefaultConfig(),
		Tutor: tutor.DefaultConfig(),
	}
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"db":          "db.path",
	"bank":        "bank.path",
	"source":      "bank.source",
	"url":         "bank.url",
	"log-file":    "log.file",
	"log-level":   "log.level",
	"seed":        "exam.seed",
	"threshold":   "exam.pass_threshold",
	"addr":        "server.addr",
	"llm":         "llm.provider",
	"llm-timeout": "llm.timeout",
}

// Load reads configuration. An explicit path must exist; otherwise
// examiz.yaml is looked up in $XDG_CONFIG_HOME/examiz and the working
// directory, and its absence is not an error. Flags that were set on the
// command line override everything else. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("examiz")
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func configDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "examiz")
}

// setDefaults registers every leaf key so environment variables can
// override keys that no config file mentions. bank.weights has no default
// because viper would merge the default categories into a configured map.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("exam.pass_threshold", d.Exam.PassThreshold)
	v.SetDefault("exam.default_length", d.Exam.DefaultLength)
	v.SetDefault("exam.seed", d.Exam.Seed)

	v.SetDefault("bank.source", d.Bank.Source)
	v.SetDefault("bank.path", d.Bank.Path)
	v.SetDefault("bank.url", d.Bank.URL)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_window", d.Server.RateWindow)

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	providers := map[string]llm.ProviderConfig{
		"anthropic":  d.LLM.Anthropic,
		"openai":     d.LLM.OpenAI,
		"gemini":     d.LLM.Gemini,
		"openrouter": d.LLM.OpenRouter,
	}
	for name, pc := range providers {
		v.SetDefault("llm."+name+".api_key", pc.APIKey)
		v.SetDefault("llm."+name+".model", pc.Model)
		v.SetDefault("llm."+name+".base_url", pc.BaseURL)
	}
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)

	v.SetDefault("tutor.max_tokens", d.Tutor.MaxTokens)
	v.SetDefault("tutor.temperature", d.Tutor.Temperature)

	v.SetDefault("db.path", d.DB.Path)
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if err := c.Exam.Policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("exam: %w", err))
	}
	if n := question.Length(c.Exam.DefaultLength); n != 0 && !n.Valid() {
		errs = append(errs, fmt.Errorf("exam.default_length: %w: %d (must be one of %s)",
			question.ErrInvalidLength, n, question.LengthsString()))
	}

	switch c.Bank.Source {
	case SourceEmbedded, SourceSQLite:
	case SourceDir, SourceBank:
		if c.Bank.Path == "" {
			errs = append(errs, fmt.Errorf("bank.path is required for the %s source", c.Bank.Source))
		}
	case SourceHTTP:
		if c.Bank.URL == "" {
			errs = append(errs, errors.New("bank.url is required for the http source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bank.source %q", c.Bank.Source))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit is negative"))
	}
	for cat, w := range c.Bank.Weights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("bank.weights.%s is negative", cat))
		}
	}

	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Weights returns the configured category weights, or the defaults when
// none are set.
func (c Config) Weights() bank.Weights {
	if w := bank.WeightsFromMap(c.Bank.Weights); len(w) > 0 {
		return w
	}
	return bank.DefaultWeights
}

// DefaultLength returns the preselected test length.
func (c Config) DefaultLength() question.Length {
	if n := question.Length(c.Exam.DefaultLength); n.Valid() {
		return n
	}
	return question.LengthShort
}
