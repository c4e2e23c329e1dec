// Package config loads application settings from an optional YAML file,
// an optional .env file and ENROLL_* environment variables, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lojf/enroll/internal/models"
)

const DefaultPath = "enroll.yaml"

type Config struct {
	DB         DBConfig         `yaml:"db"`
	HTTP       HTTPConfig       `yaml:"http"`
	Enrollment EnrollmentConfig `yaml:"enrollment"`
	Form       FormConfig       `yaml:"form"`
	Log        LogConfig        `yaml:"log"`
}

type DBConfig struct {
	Path       string `yaml:"path"`
	LogQueries bool   `yaml:"log_queries"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type EnrollmentConfig struct {
	// Milestone is the total record count that triggers the leaderboard
	// report. Only that exact count triggers it. 0 disables the report.
	Milestone       int `yaml:"milestone"`
	LeaderboardSize int `yaml:"leaderboard_size"`
}

// FormConfig covers the presentation differences between form layouts.
type FormConfig struct {
	Title  string         `yaml:"title"`
	Widths map[string]int `yaml:"widths"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | console
	File   string `yaml:"file"`   // empty means stderr
}

func Default() *Config {
	return &Config{
		DB:   DBConfig{Path: "enrollment.db"},
		HTTP: HTTPConfig{Addr: ":8080"},
		Enrollment: EnrollmentConfig{
			Milestone:       8,
			LeaderboardSize: 3,
		},
		Form: FormConfig{
			Title:  "Course Enrollment",
			Widths: DefaultWidths(),
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultWidths are the input widths of the standard enrollment window.
func DefaultWidths() map[string]int {
	return map[string]int{
		models.FieldName:          30,
		models.FieldEmail:         30,
		models.FieldPhone:         30,
		models.FieldAge:           10,
		models.FieldGender:        15,
		models.FieldDOB:           15,
		models.FieldNationality:   30,
		models.FieldQualification: 30,
		models.FieldCourse:        27,
		models.FieldPercentage:    10,
	}
}

// Width returns the configured input width for field.
func (f FormConfig) Width(field string) int {
	if w, ok := f.Widths[field]; ok && w > 0 {
		return w
	}
	return DefaultWidths()[field]
}

// Load reads path (missing file means defaults), then .env, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env is optional; real environment variables win over it.
	envFile := ".env"
	if path != "" {
		envFile = filepath.Join(filepath.Dir(path), ".env")
	}
	_ = godotenv.Load(envFile)

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ENROLL_DB"); v != "" {
		c.DB.Path = v
	}
	if v := os.Getenv("ENROLL_DB_LOG_QUERIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ENROLL_DB_LOG_QUERIES: %w", err)
		}
		c.DB.LogQueries = b
	}
	if v := os.Getenv("ENROLL_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("ENROLL_MILESTONE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ENROLL_MILESTONE: %w", err)
		}
		c.Enrollment.Milestone = n
	}
	if v := os.Getenv("ENROLL_FORM_TITLE"); v != "" {
		c.Form.Title = v
	}
	if v := os.Getenv("ENROLL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ENROLL_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("ENROLL_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("config: db.path is required")
	}
	if c.Enrollment.Milestone < 0 {
		return fmt.Errorf("config: enrollment.milestone must be >= 0, got %d", c.Enrollment.Milestone)
	}
	if c.Enrollment.LeaderboardSize < 1 {
		return fmt.Errorf("config: enrollment.leaderboard_size must be >= 1, got %d", c.Enrollment.LeaderboardSize)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
