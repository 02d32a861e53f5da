// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAdminEmail  = "admin@admin.com"
	DefaultTokenName   = "TestToken"
	DefaultTokenID     = "00001111222233334444555566667777"
	DefaultTokenSecret = "88889999aaaabbbbccccddddeeeeffff"
)

type Config struct {
	Database struct {
		Driver   string `yaml:"driver"` // mysql, postgres or sqlite
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		SSLMode  string `yaml:"sslmode"`
		Path     string `yaml:"path"` // SQLite database file
	} `yaml:"database"`

	Seed struct {
		AdminEmail  string `yaml:"admin_email"`
		TokenName   string `yaml:"token_name"`
		TokenID     string `yaml:"token_id"`
		TokenSecret string `yaml:"token_secret"`
		BcryptCost  int    `yaml:"bcrypt_cost"`
	} `yaml:"seed"`

	Lock struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		DB       int    `yaml:"db"`
		Password string `yaml:"password"`
		Key      string `yaml:"key"`
		TTL      int    `yaml:"ttl"`     // seconds the lock is held before it expires
		Timeout  int    `yaml:"timeout"` // seconds to wait for a held lock
	} `yaml:"lock"`

	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// Env holds the overrides read from the process environment. Empty values
// leave the file configuration untouched.
type Env struct {
	TokenID     string `envconfig:"CUSTOM_TEST_TOKEN_ID"`
	TokenSecret string `envconfig:"CUSTOM_TEST_TOKEN_SECRET"`
	DBDriver    string `envconfig:"DB_DRIVER"`
	DBHost      string `envconfig:"DB_HOST"`
	DBPort      int    `envconfig:"DB_PORT"`
	DBDatabase  string `envconfig:"DB_DATABASE"`
	DBUsername  string `envconfig:"DB_USERNAME"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
}

// LoadConfig reads filename, applies environment overrides and fills in
// defaults. An empty filename skips the file.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	config.applyEnv(env)
	config.setDefaults()

	return config, nil
}

func (c *Config) applyEnv(env Env) {
	if env.TokenID != "" {
		c.Seed.TokenID = env.TokenID
	}
	if env.TokenSecret != "" {
		c.Seed.TokenSecret = env.TokenSecret
	}
	if env.DBDriver != "" {
		c.Database.Driver = env.DBDriver
	}
	if env.DBHost != "" {
		c.Database.Host = env.DBHost
	}
	if env.DBPort != 0 {
		c.Database.Port = env.DBPort
	}
	if env.DBDatabase != "" {
		c.Database.DBName = env.DBDatabase
		c.Database.Path = env.DBDatabase
	}
	if env.DBUsername != "" {
		c.Database.User = env.DBUsername
	}
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
}

func (c *Config) setDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "postgres":
			c.Database.Port = 5432
		default:
			c.Database.Port = 3306
		}
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "bookstack"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.Path == "" {
		c.Database.Path = "bookstack.db"
	}
	if c.Seed.AdminEmail == "" {
		c.Seed.AdminEmail = DefaultAdminEmail
	}
	if c.Seed.TokenName == "" {
		c.Seed.TokenName = DefaultTokenName
	}
	if c.Seed.TokenID == "" {
		c.Seed.TokenID = DefaultTokenID
	}
	if c.Seed.TokenSecret == "" {
		c.Seed.TokenSecret = DefaultTokenSecret
	}
	if c.Seed.BcryptCost == 0 {
		c.Seed.BcryptCost = 10
	}
	if c.Lock.Host == "" {
		c.Lock.Host = "localhost"
	}
	if c.Lock.Port == 0 {
		c.Lock.Port = 6379
	}
	if c.Lock.Key == "" {
		c.Lock.Key = "bookstack:test-api-token:lock"
	}
	if c.Lock.TTL == 0 {
		c.Lock.TTL = 30
	}
	if c.Lock.Timeout == 0 {
		c.Lock.Timeout = 60
	}
}
