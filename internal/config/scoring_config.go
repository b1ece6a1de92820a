package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/sankalpm/applybot/internal/matching"
)

type WeightsConfig struct {
	Skills         float64 `mapstructure:"skills" validate:"gte=0,lte=1"`
	RoleTitle      float64 `mapstructure:"role_title" validate:"gte=0,lte=1"`
	WorkMode       float64 `mapstructure:"work_mode" validate:"gte=0,lte=1"`
	EmploymentType float64 `mapstructure:"employment_type" validate:"gte=0,lte=1"`
}

type ScoringConfig struct {
	Weights           WeightsConfig `mapstructure:"weights"`
	MinScore          float64       `mapstructure:"min_score" validate:"gte=0,lte=100"`
	AutoApplyMinScore float64       `mapstructure:"auto_apply_min_score" validate:"gte=0,lte=100"`
	DailyLimit        int           `mapstructure:"daily_limit" validate:"gte=1"`
}

func (config ScoringConfig) validate() error {

	if err := validator.New().Struct(config); err != nil {
		return err
	}

	sum := config.Weights.Skills + config.Weights.RoleTitle +
		config.Weights.WorkMode + config.Weights.EmploymentType

	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}

	return nil
}

func (config ScoringConfig) MatchingWeights() matching.Weights {
	return matching.Weights{
		Skills:         config.Weights.Skills,
		RoleTitle:      config.Weights.RoleTitle,
		WorkMode:       config.Weights.WorkMode,
		EmploymentType: config.Weights.EmploymentType,
	}
}
