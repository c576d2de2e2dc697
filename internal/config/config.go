package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // postgres | mysql
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Storage struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"storage"`

	Terminal struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		StartYear      int    `yaml:"startYear"`
		EndYear        int    `yaml:"endYear"`
	} `yaml:"terminal"`

	Auth struct {
		SessionSecret   string `yaml:"sessionSecret"`
		SessionTTLHours int    `yaml:"sessionTTLHours"`
		SecureCookies   bool   `yaml:"secureCookies"`
	} `yaml:"auth"`

	AI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"ai"`

	Analysis struct {
		TemplatePath string `yaml:"templatePath"`
		WorkDir      string `yaml:"workDir"`
	} `yaml:"analysis"`
}

// Load reads the yaml config file, then applies .env / environment overrides.
// Environment always wins over the file so deployments can keep secrets out
// of it.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()

	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("session secret is not set (auth.sessionSecret or SESSION_SECRET)")
	}
	switch cfg.Database.Driver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "mysql" {
			c.Database.Port = 3306
		} else {
			c.Database.Port = 5432
		}
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "lisquant_db"
	}
	if c.Terminal.Host == "" {
		c.Terminal.Host = "localhost"
	}
	if c.Terminal.Port == 0 {
		c.Terminal.Port = 8194
	}
	if c.Terminal.TimeoutSeconds == 0 {
		c.Terminal.TimeoutSeconds = 30
	}
	if c.Terminal.StartYear == 0 {
		c.Terminal.StartYear = 2014
	}
	if c.Terminal.EndYear == 0 {
		c.Terminal.EndYear = 2024
	}
	if c.Auth.SessionTTLHours == 0 {
		c.Auth.SessionTTLHours = 24
	}
	if c.Analysis.TemplatePath == "" {
		c.Analysis.TemplatePath = "LIS_Valuation_Empty.xlsx"
	}
	if c.Analysis.WorkDir == "" {
		c.Analysis.WorkDir = "user_files"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Auth.SessionSecret = v
	}
	if v := os.Getenv("TERMINAL_HOST"); v != "" {
		c.Terminal.Host = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

// TerminalTimeout returns the per-request timeout for the terminal gateway.
func (c *Config) TerminalTimeout() time.Duration {
	return time.Duration(c.Terminal.TimeoutSeconds) * time.Second
}

// String masks secrets so the config can be logged at startup.
func (c *Config) String() string {
	return fmt.Sprintf("Config{server: :%d, db: %s@%s:%d/%s, storage: %s/%s, terminal: %s:%d, secrets: *** (masked)}",
		c.Server.Port,
		c.Database.Driver, c.Database.Host, c.Database.Port, c.Database.Name,
		c.Storage.Endpoint, c.Storage.BucketName,
		c.Terminal.Host, c.Terminal.Port,
	)
}
