package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	os.Setenv("CONFIG_PATH", "../../configs/config.yaml")
	os.Setenv("DB_CONNECTION_STRING", "override.db")
	os.Setenv("AI_KEY", "overrideKey")
	os.Setenv("AI_MODEL", "super_duper_model")
	os.Setenv("LOG_LEVEL", "DEBUG")
	defer func() {
		os.Unsetenv("CONFIG_PATH")
		os.Unsetenv("DB_CONNECTION_STRING")
		os.Unsetenv("AI_KEY")
		os.Unsetenv("AI_MODEL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg := Get()

	assert.Equal(t, "override.db", cfg.DB.ConnectionString)
	assert.Equal(t, "overrideKey", cfg.AI.Key)
	assert.Equal(t, "super_duper_model", cfg.AI.Model)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
}

func Test_Config_DefaultScoringWeights(t *testing.T) {
	os.Setenv("CONFIG_PATH", "../../configs/config.yaml")
	defer os.Unsetenv("CONFIG_PATH")

	cfg := Get()

	assert.Equal(t, 0.40, cfg.Scoring.Weights.Skills)
	assert.Equal(t, 0.30, cfg.Scoring.Weights.RoleTitle)
	assert.Equal(t, 0.15, cfg.Scoring.Weights.WorkMode)
	assert.Equal(t, 0.15, cfg.Scoring.Weights.EmploymentType)
	assert.Equal(t, 20, cfg.Scoring.DailyLimit)
}

func Test_ScoringConfig_RejectsWeightsNotSummingToOne(t *testing.T) {
	cfg := ScoringConfig{
		Weights: WeightsConfig{
			Skills:         0.5,
			RoleTitle:      0.5,
			WorkMode:       0.5,
			EmploymentType: 0.5,
		},
		MinScore:          50,
		AutoApplyMinScore: 70,
		DailyLimit:        20,
	}

	assert.Error(t, cfg.validate())

	cfg.Weights = WeightsConfig{Skills: 0.40, RoleTitle: 0.30, WorkMode: 0.15, EmploymentType: 0.15}
	assert.NoError(t, cfg.validate())
}

func Test_ApplicationConfig_RejectsUnknownWorkflowMode(t *testing.T) {
	cfg := ApplicationConfig{WorkflowMode: "lenient", JobExpirationDays: 30}
	assert.Error(t, cfg.validate())

	cfg.WorkflowMode = "strict"
	assert.NoError(t, cfg.validate())
}

func Test_LoadProfile(t *testing.T) {
	os.Setenv("PROFILE_PATH", "../../configs/profile.yaml")
	defer os.Unsetenv("PROFILE_PATH")

	profile, err := LoadProfile(nil)
	require.NoError(t, err)

	assert.NotEmpty(t, profile.Skills.Programming)
	assert.NotEmpty(t, profile.Preferences.Roles)
	assert.Contains(t, profile.Skills.AllSkills(), "Python")
}
