package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/spf13/viper"
)

var profileFile = "./configs/profile.yaml"

// LoadProfile reads the candidate profile. PROFILE_PATH overrides the
// config's profile_path, which overrides the default location.
func LoadProfile(cfg *Config) (*models.UserProfile, error) {

	file := profileFile
	if cfg != nil && cfg.Application.ProfilePath != "" {
		file = cfg.Application.ProfilePath
	}
	if value, ok := os.LookupEnv("PROFILE_PATH"); ok {
		file = value
	}

	v := viper.New()
	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read profile")
	}

	profile := models.UserProfile{}
	if err := v.Unmarshal(&profile); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal profile")
	}

	return &profile, nil
}
