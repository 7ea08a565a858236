package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
	"github.com/CryingSurrogate/docchunk/internal/tokens"
)

// Config holds runtime configuration for the chunking service.
// Values can be overridden by env vars.
type Config struct {
	MaxTokens     int    `toml:"max_tokens"`
	OverlapTokens int    `toml:"overlap_tokens"`
	EncodingModel string `toml:"encoding_model"`

	// EmbeddedVocabulary loads encoder vocabularies from the binary instead of downloading them.
	EmbeddedVocabulary bool `toml:"embedded_vocabulary"`

	RespectBoundaries bool `toml:"respect_boundaries"`
	PreserveStructure bool `toml:"preserve_structure"`
	SectionWorkers    int  `toml:"section_workers"`

	ArtifactRoot string `toml:"artifact_root"`
	ListenAddr   string `toml:"listen_addr"`
}

// Default returns the configuration used when no file or env overrides are given.
func Default() *Config {
	return &Config{
		MaxTokens:          chunker.DefaultMaxTokens,
		OverlapTokens:      chunker.DefaultOverlapTokens,
		EncodingModel:      tokens.DefaultModel,
		EmbeddedVocabulary: true,
		RespectBoundaries:  true,
		PreserveStructure:  true,
		SectionWorkers:     1,
		ArtifactRoot:       "var/lib/docchunk/artifacts",
		ListenAddr:         ":9878",
	}
}

// Load reads configuration from the provided path, applying environment overrides.
// An empty path uses defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	set := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, env string) error {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", env, err)
		}
		*dst = n
		return nil
	}
	setBool := func(dst *bool, env string) error {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", env, err)
		}
		*dst = b
		return nil
	}

	set(&cfg.EncodingModel, "ENCODING_MODEL")
	set(&cfg.ArtifactRoot, "ARTIFACT_ROOT")
	set(&cfg.ListenAddr, "LISTEN_ADDR")

	for _, e := range []struct {
		dst *int
		env string
	}{
		{&cfg.MaxTokens, "MAX_TOKENS"},
		{&cfg.OverlapTokens, "OVERLAP_TOKENS"},
		{&cfg.SectionWorkers, "SECTION_WORKERS"},
	} {
		if err := setInt(e.dst, e.env); err != nil {
			return err
		}
	}
	if err := setBool(&cfg.EmbeddedVocabulary, "EMBEDDED_VOCABULARY"); err != nil {
		return err
	}
	if err := setBool(&cfg.RespectBoundaries, "RESPECT_BOUNDARIES"); err != nil {
		return err
	}
	return setBool(&cfg.PreserveStructure, "PRESERVE_STRUCTURE")
}

func normalize(cfg *Config) {
	cfg.EncodingModel = strings.TrimSpace(cfg.EncodingModel)
	if cfg.EncodingModel == "" {
		cfg.EncodingModel = tokens.DefaultModel
	}
	cfg.ArtifactRoot = strings.TrimSpace(cfg.ArtifactRoot)
	if cfg.ArtifactRoot != "" {
		cfg.ArtifactRoot = filepath.Clean(cfg.ArtifactRoot)
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
}

// Validate reports every invalid field at once.
func (cfg *Config) Validate() error {
	var problems []string

	if cfg.MaxTokens < 1 {
		problems = append(problems, "max_tokens must be >= 1")
	}
	if cfg.OverlapTokens < 0 {
		problems = append(problems, "overlap_tokens must be >= 0")
	}
	if cfg.MaxTokens >= 1 && cfg.OverlapTokens >= cfg.MaxTokens {
		problems = append(problems, "overlap_tokens must be below max_tokens")
	}
	if cfg.SectionWorkers < 1 {
		problems = append(problems, "section_workers must be >= 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", chunker.ErrInvalidConfig, strings.Join(problems, ", "))
	}
	return nil
}

// ChunkerOptions converts the configuration into chunker options using counter.
func (cfg *Config) ChunkerOptions(counter chunker.TokenCounter) chunker.Options {
	return chunker.Options{
		MaxTokens:         cfg.MaxTokens,
		OverlapTokens:     cfg.OverlapTokens,
		RespectBoundaries: cfg.RespectBoundaries,
		PreserveStructure: cfg.PreserveStructure,
		Workers:           cfg.SectionWorkers,
		Counter:           counter,
	}
}
