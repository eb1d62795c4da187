package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds process settings read from configs/config.yml and the environment.
type Config struct {
	Port   string `mapstructure:"port"`
	JWTKey string `mapstructure:"jwt_key"`
	DB     struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Auth struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":             "PORT",
	"jwt_key":          "JWT_KEY",
	"db.dsn":           "DB_DSN",
	"log.level":        "LOG_LEVEL",
	"log.format":       "LOG_FORMAT",
	"auth.bcrypt_cost": "BCRYPT_COST",
}

// Load reads the optional config.yml from paths (default "configs"), applies
// environment overrides and validates the result.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{"configs"}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.bcrypt_cost", 10)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails when a required setting is absent.
func (c Config) Validate() error {
	var missing []error
	if c.Port == "" {
		missing = append(missing, errors.New("port must be defined (PORT)"))
	}
	if c.JWTKey == "" {
		missing = append(missing, errors.New("jwt_key must be defined (JWT_KEY)"))
	}
	if c.DB.DSN == "" {
		missing = append(missing, errors.New("db.dsn must be defined (DB_DSN)"))
	}
	return errors.Join(missing...)
}
