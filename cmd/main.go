package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/sankalpm/applybot/internal/clients/dispatch"
	"github.com/sankalpm/applybot/internal/clients/gemini"
	"github.com/sankalpm/applybot/internal/config"
	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/logger"
	"github.com/sankalpm/applybot/internal/matching"
	"github.com/sankalpm/applybot/internal/metrics"
	"github.com/sankalpm/applybot/internal/notifier"
	"github.com/sankalpm/applybot/internal/repositories"
	"github.com/sankalpm/applybot/internal/services"
	log "github.com/sirupsen/logrus"
)

func buildAIClient(ctx context.Context, cfg *config.Config) *gemini.Client {

	if cfg.AI.Key == "" {
		log.Info("no AI key configured, falling back to template cover letters and fuzzy matching")
		return nil
	}

	model := gemini.Model15Flash
	if cfg.AI.Model != "" {
		model = gemini.Model(cfg.AI.Model)
	}

	aiClient, err := gemini.NewClient(ctx, cfg.AI.Key, model)
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	aiClient.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)
	return aiClient
}

func runPipeline(ctx context.Context, cfg *config.Config, profile *models.UserProfile,
	dbContext *repositories.DbContext, bus EventBus.Bus) (stop func()) {

	jobs := repositories.NewJobsRepository(dbContext.DB)
	applications := repositories.NewApplicationsRepository(dbContext.DB)
	audit := repositories.NewAuditRepository(dbContext.DB)
	quota := repositories.NewQuotaRepository(dbContext.DB)

	aiClient := buildAIClient(ctx, cfg)

	var embedder matching.Embedder
	coverLetters := services.NewCoverLetters(nil)
	if aiClient != nil {
		embedder = aiClient
		coverLetters = services.NewCoverLetters(aiClient)
	}

	scorer := matching.NewScorer(cfg.Scoring.MatchingWeights(), matching.NewNormalizer())
	semantic := matching.NewSemanticMatcher(embedder)
	ranker := matching.NewRanker()

	matcher := services.NewMatcher(jobs, scorer, semantic, bus, cfg.Scoring.MinScore)
	tracker := services.NewTracker(dbContext.DB, jobs, audit, bus, cfg.Application.Mode())

	var dispatcher services.Dispatcher = dispatch.NewDryRun()
	if !cfg.Application.DryRun {
		log.Warn("no live dispatcher is configured, staying in dry run mode")
	}

	manager := services.NewApplicationManager(jobs, applications, quota, audit, matcher, ranker,
		tracker, coverLetters, dispatcher, bus, cfg.Scoring.AutoApplyMinScore, cfg.Scoring.DailyLimit)

	expirer, err := services.NewJobsExpirer(jobs, tracker, cfg.Application.JobExpirationDays)
	if err != nil {
		log.Fatalf("can't create jobs expirer: %v", err)
	}

	var scheduler *services.ApplyScheduler
	if cfg.Application.ApplyCron != "" {
		scheduler, err = services.NewApplyScheduler(manager, profile, cfg.Application.ApplyCron)
		if err != nil {
			log.Fatalf("can't create apply scheduler: %v", err)
		}
	}

	return func() {
		expirer.Stop()
		if scheduler != nil {
			scheduler.Stop()
		}
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	profile, err := config.LoadProfile(cfg)
	if err != nil {
		log.Fatalf("can't load user profile: %v", err)
	}

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	bus := EventBus.New()

	if cfg.Notifier.Enabled() {
		tgNotifier, err := notifier.NewTelegram(cfg.Notifier.TgToken, cfg.Notifier.TgChatID, bus)
		if err != nil {
			log.Fatalf("can't create notifier: %v", err)
		}
		defer tgNotifier.Close()
	}

	stopPipeline := runPipeline(ctx, cfg, profile, dbContext, bus)

	<-ctx.Done()

	log.Info("Shutting down services...")
	stopPipeline()
	log.Info("Services stopped.")
}
