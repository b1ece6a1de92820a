package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	DB          DBConfig          `mapstructure:"db"`
	Scoring     ScoringConfig     `mapstructure:"scoring"`
	Application ApplicationConfig `mapstructure:"application"`
	AI          AIConfig          `mapstructure:"ai"`
	Notifier    NotifierConfig    `mapstructure:"notifier"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("scoring.weights.skills", 0.40)
	viper.SetDefault("scoring.weights.role_title", 0.30)
	viper.SetDefault("scoring.weights.work_mode", 0.15)
	viper.SetDefault("scoring.weights.employment_type", 0.15)
	viper.SetDefault("scoring.min_score", 50)
	viper.SetDefault("scoring.auto_apply_min_score", 70)
	viper.SetDefault("scoring.daily_limit", 20)
	viper.SetDefault("application.dry_run", true)
	viper.SetDefault("application.workflow_mode", "permissive")
	viper.SetDefault("application.job_expiration_days", 30)
}

func bindEnvironmentVariables() error {
	var errs []error

	db, logger, ai, notifier := DBConfig{}, LoggerConfig{}, AIConfig{}, NotifierConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := ai.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	if err := notifier.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("NotifierConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Scoring.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ScoringConfig: %w", err))
	}

	if err := config.Application.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ApplicationConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
