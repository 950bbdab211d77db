package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Progress Progress
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Progress controls resume-state retention. TTL is how long a saved slot
// stays resumable; SweepInterval is how often expired slots are purged.
type Progress struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("PROGRESS_TTL_HOURS", 24)
	viper.SetDefault("PROGRESS_SWEEP_MINUTES", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Progress.TTL = time.Duration(viper.GetInt("PROGRESS_TTL_HOURS")) * time.Hour
	config.Progress.SweepInterval = time.Duration(viper.GetInt("PROGRESS_SWEEP_MINUTES")) * time.Minute

	log.Info().
		Str("server_port", config.Server.Port).
		Str("database_host", config.Database.Host).
		Dur("progress_ttl", config.Progress.TTL).
		Msg("Config loaded")
	return &config, nil
}
