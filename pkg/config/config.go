package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Log    LogConfig
	Solver SolverConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig carries the server-wide solver defaults. A request can lower
// MaxSolutions but never exceed it.
type SolverConfig struct {
	MaxSolutions          int
	NodeBudget            int
	CourseDurationMinutes int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		MaxSolutions:          v.GetInt("SOLVER_MAX_SOLUTIONS"),
		NodeBudget:            v.GetInt("SOLVER_NODE_BUDGET"),
		CourseDurationMinutes: v.GetInt("SOLVER_COURSE_DURATION_MINUTES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_MAX_SOLUTIONS", 10)
	v.SetDefault("SOLVER_NODE_BUDGET", 2_000_000)
	v.SetDefault("SOLVER_COURSE_DURATION_MINUTES", 90)
}
