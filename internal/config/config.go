package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Compass/internal/recommend"
	"github.com/MikeSquared-Agency/Compass/internal/report"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Hermes      HermesConfig      `yaml:"hermes"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AdminToken        string `yaml:"admin_token"`
	RateLimitPerMin   int    `yaml:"rate_limit_per_min"`
	ShutdownTimeoutMs int    `yaml:"shutdown_timeout_ms"`
}

// DatabaseConfig selects the session store. Driver is "postgres" or "sqlite";
// for sqlite the URL is a file path or ":memory:".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type DefinitionsConfig struct {
	Dir string `yaml:"dir"`
}

type ScoringConfig struct {
	PriorityWeights       PriorityWeights       `yaml:"priority_weights"`
	RecommendationWeights RecommendationWeights `yaml:"recommendation_weights"`
	TopGapsLimit          int                   `yaml:"top_gaps_limit"`
	TopTopicsLimit        int                   `yaml:"top_topics_limit"`
	BubbleLimit           int                   `yaml:"bubble_limit"`
}

// PriorityWeights rank individual topics.
type PriorityWeights struct {
	Gap      float64 `yaml:"gap"`
	Ambition float64 `yaml:"ambition"`
	Weakness float64 `yaml:"weakness"`
}

// RecommendationWeights rank matched rules.
type RecommendationWeights struct {
	Urgency    float64 `yaml:"urgency"`
	Importance float64 `yaml:"importance"`
	Effort     float64 `yaml:"effort"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RateLimitPerMin:   120,
			ShutdownTimeoutMs: 10000,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			URL:    "compass.db",
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Definitions: DefinitionsConfig{
			Dir: "definitions",
		},
		Scoring: ScoringConfig{
			PriorityWeights: PriorityWeights{
				Gap:      0.40,
				Ambition: 0.30,
				Weakness: 0.30,
			},
			RecommendationWeights: RecommendationWeights{
				Urgency:    0.50,
				Importance: 0.30,
				Effort:     0.20,
			},
			TopGapsLimit:   5,
			TopTopicsLimit: 10,
			BubbleLimit:    12,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return cfg, nil
}

// Validate rejects weight sets that do not sum to 1 or carry negative
// weights, and negative limits.
func (s ScoringConfig) Validate() error {
	var errs []error
	if err := s.priorityWeights().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.recommendationWeights().Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.TopGapsLimit < 0 || s.TopTopicsLimit < 0 || s.BubbleLimit < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	return errors.Join(errs...)
}

// ReportOptions converts the scoring section into report builder options.
func (s ScoringConfig) ReportOptions() report.Options {
	return report.Options{
		TopGapsLimit:          s.TopGapsLimit,
		TopTopicsLimit:        s.TopTopicsLimit,
		BubbleLimit:           s.BubbleLimit,
		PriorityWeights:       s.priorityWeights(),
		RecommendationWeights: s.recommendationWeights(),
	}
}

func (s ScoringConfig) priorityWeights() scoring.PriorityWeights {
	return scoring.PriorityWeights{
		Gap:      s.PriorityWeights.Gap,
		Ambition: s.PriorityWeights.Ambition,
		Weakness: s.PriorityWeights.Weakness,
	}
}

func (s ScoringConfig) recommendationWeights() recommend.PriorityWeights {
	return recommend.PriorityWeights{
		Urgency:    s.RecommendationWeights.Urgency,
		Importance: s.RecommendationWeights.Importance,
		Effort:     s.RecommendationWeights.Effort,
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMPASS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("COMPASS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("COMPASS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("COMPASS_RATE_LIMIT_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMin = n
		}
	}
	if v := os.Getenv("COMPASS_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("COMPASS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("COMPASS_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("COMPASS_DEFINITIONS_DIR"); v != "" {
		cfg.Definitions.Dir = v
	}
	if v := os.Getenv("COMPASS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COMPASS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
