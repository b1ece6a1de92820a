package config

import (
	"fmt"

	"github.com/sankalpm/applybot/internal/workflow"
	"github.com/spf13/viper"
)

type ApplicationConfig struct {
	DryRun            bool   `mapstructure:"dry_run"`
	WorkflowMode      string `mapstructure:"workflow_mode"`
	ApplyCron         string `mapstructure:"apply_cron"`
	JobExpirationDays int    `mapstructure:"job_expiration_days"`
	ProfilePath       string `mapstructure:"profile_path"`
}

func (config ApplicationConfig) validate() error {

	switch workflow.Mode(config.WorkflowMode) {
	case workflow.Permissive, workflow.Strict:
	default:
		return fmt.Errorf("workflow_mode must be %q or %q", workflow.Permissive, workflow.Strict)
	}

	if config.JobExpirationDays <= 0 {
		return fmt.Errorf("job_expiration_days must be greater than zero")
	}

	return nil
}

func (config ApplicationConfig) Mode() workflow.Mode {
	return workflow.Mode(config.WorkflowMode)
}

type AIConfig struct {
	Key                  string  `mapstructure:"key"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("ai.key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.model", "AI_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

type NotifierConfig struct {
	TgToken  string `mapstructure:"tg_token"`
	TgChatID int64  `mapstructure:"tg_chat_id"`
}

func (config NotifierConfig) Enabled() bool {
	return config.TgToken != "" && config.TgChatID != 0
}

func (config NotifierConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("notifier.tg_token", "TG_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.tg_chat_id", "TG_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
