package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Storage  *StorageConfig  `mapstructure:"storage"`
}

type APIConfig struct {
	Port               string `mapstructure:"port"`
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	TokenTTLMinutes    int    `mapstructure:"token_ttl_minutes"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type StorageConfig struct {
	UploadDir       string `mapstructure:"upload_dir"`
	BackupDir       string `mapstructure:"backup_dir"`
	MaintenanceFile string `mapstructure:"maintenance_file"`
}

// Load reads the yaml config file and lets environment variables
// (API_PORT, POSTGRES_HOST, ...) override any key.
func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if conf.API == nil || conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("config %v is missing api.jwt_signing_key", path)
	}

	return &conf, nil
}
