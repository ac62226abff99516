package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localpulse/localpulse/config"
	"github.com/localpulse/localpulse/internal/domain"
	apihttp "github.com/localpulse/localpulse/internal/http"
	"github.com/localpulse/localpulse/internal/migrations"
	"github.com/localpulse/localpulse/internal/repository"
	"github.com/localpulse/localpulse/internal/service"
	"github.com/localpulse/localpulse/internal/service/insights"
	"github.com/localpulse/localpulse/internal/service/providers"
	"github.com/localpulse/localpulse/pkg/logger"
	"github.com/localpulse/localpulse/pkg/tracing"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewConsoleLogger("error").Fatal("Failed to load configuration: " + err.Error())
	}

	var log logger.Logger
	if cfg.IsDevelopment() {
		log = logger.NewConsoleLogger(cfg.LogLevel)
	} else {
		log = logger.NewLogger(cfg.LogLevel)
	}

	tracer, err := tracing.InitTracing(&cfg.Tracing, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing: " + err.Error())
	}
	defer tracer.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driverName, err := tracing.RegisterSQLDriver(cfg.Tracing.Enabled)
	if err != nil {
		log.Fatal("Failed to register SQL driver: " + err.Error())
	}
	db, err := repository.OpenDB(ctx, driverName, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: " + err.Error())
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, log); err != nil {
		log.Fatal("Failed to run migrations: " + err.Error())
	}

	// Repositories
	profileRepo := repository.NewBusinessProfileRepository(db)
	sourceRepo := repository.NewReviewSourceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	jobRepo := repository.NewReviewSyncJobRepository(db)
	responseRepo := repository.NewReviewResponseRepository(db)
	sentimentRepo := repository.NewReviewSentimentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Provider clients
	registry := providers.NewRegistry()
	registry.Register(providers.NewGoogleClient(providers.Credentials{
		ClientID:     cfg.Providers.Google.ClientID,
		ClientSecret: cfg.Providers.Google.ClientSecret,
	}, log))
	registry.Register(providers.NewYelpClient(providers.Credentials{
		ClientID:     cfg.Providers.Yelp.ClientID,
		ClientSecret: cfg.Providers.Yelp.ClientSecret,
	}, log))
	registry.Register(providers.NewFacebookClient(providers.Credentials{
		ClientID:     cfg.Providers.Facebook.ClientID,
		ClientSecret: cfg.Providers.Facebook.ClientSecret,
	}, log))

	// Token management
	tokens := service.NewSourceTokenService(sourceRepo, registry, cfg.Security.SecretKey, log)
	sweeper := service.NewTokenRefreshSweeper(sourceRepo, tokens,
		cfg.ReviewSync.TokenSweepInterval, cfg.ReviewSync.TokenSweepLookahead, log)
	go sweeper.Run(ctx)

	// Notification channels
	notifications := service.NewNotificationService(notificationRepo, log)
	if cfg.Notifications.SMTPHost != "" {
		notifications.RegisterChannel(service.NewEmailChannel(service.EmailChannelConfig{
			Host:      cfg.Notifications.SMTPHost,
			Port:      cfg.Notifications.SMTPPort,
			Username:  cfg.Notifications.SMTPUsername,
			Password:  cfg.Notifications.SMTPPassword,
			UseTLS:    true,
			FromEmail: cfg.Notifications.FromEmail,
			FromName:  cfg.Notifications.FromName,
		}, log))
	}
	if cfg.Notifications.SESRegion != "" {
		sesChannel, err := service.NewSESChannel(cfg.Notifications.SESRegion,
			cfg.Notifications.FromEmail, cfg.Notifications.FromName, log)
		if err != nil {
			log.Warn("SES channel disabled: " + err.Error())
		} else {
			notifications.RegisterChannel(sesChannel)
		}
	}
	webhookChannel, err := service.NewWebhookChannel(cfg.Notifications.WebhookSigningSecret, log)
	if err != nil {
		log.Fatal("Failed to create webhook channel: " + err.Error())
	}
	notifications.RegisterChannel(webhookChannel)

	// Core services
	sentiment := service.NewSentimentService(sentimentRepo, log)
	syncService := service.NewReviewSyncService(
		sourceRepo, reviewRepo, jobRepo, profileRepo,
		registry, tokens, sentiment, notifications,
		cfg.ReviewSync.LowRatingThreshold, log,
	)

	var polisher service.DraftPolisher
	if cfg.AI.AnthropicAPIKey != "" {
		polisher = service.NewAIDraftPolisher(cfg.AI.AnthropicAPIKey, cfg.AI.Model, log)
	}
	responseService := service.NewReviewResponseService(
		responseRepo, reviewRepo, sourceRepo, profileRepo,
		registry, tokens, polisher, log,
	)

	sourceService := service.NewReviewSourceService(sourceRepo, profileRepo, service.OAuthApps{
		domain.ProviderGoogle:   {ClientID: cfg.Providers.Google.ClientID, ClientSecret: cfg.Providers.Google.ClientSecret},
		domain.ProviderYelp:     {ClientID: cfg.Providers.Yelp.ClientID, ClientSecret: cfg.Providers.Yelp.ClientSecret},
		domain.ProviderFacebook: {ClientID: cfg.Providers.Facebook.ClientID, ClientSecret: cfg.Providers.Facebook.ClientSecret},
	}, cfg.Security.SecretKey, log)

	// Insights
	insightsCache := insights.NewCache(cfg.Insights.CacheTTL)
	locationScores := insights.NewLocationScoreService(
		insights.NewWalkScoreClient(cfg.Insights.WalkScoreAPIKey),
		insights.NewCrimeClient(cfg.Insights.CrimeAPIEndpoint),
		insights.NewHealthClient(cfg.Insights.HealthAPIEndpoint),
		insights.NewTrendsClient(cfg.Insights.TrendsAPIEndpoint),
		insightsCache, log,
	)
	marketSizes := insights.NewMarketSizeService(log)
	menuScraper := insights.NewMenuScraper(log)

	// HTTP API
	auth := apihttp.NewAuthMiddleware(cfg.Security.SecretKey, log)
	server := apihttp.NewServer(cfg.Server.Addr(), log,
		apihttp.NewBusinessProfileHandler(profileRepo, auth, log),
		apihttp.NewReviewSourceHandler(sourceService, auth, log),
		apihttp.NewReviewHandler(syncService, reviewRepo, jobRepo, sentiment, auth, log),
		apihttp.NewReviewResponseHandler(responseService, auth, log),
		apihttp.NewInsightsHandler(profileRepo, locationScores, marketSizes, menuScraper, auth, log),
		apihttp.NewNotificationHandler(notifications, auth, log),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("HTTP server failed: " + err.Error())
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown did not complete cleanly: " + err.Error())
	}
}
