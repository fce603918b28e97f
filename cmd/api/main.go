package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calendar-assistant/config"
	_ "calendar-assistant/docs" // Swagger docs
	tgDelivery "calendar-assistant/internal/event/delivery/telegram"
	"calendar-assistant/internal/event/usecase"
	"calendar-assistant/internal/httpserver"
	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
	"calendar-assistant/pkg/log"
	"calendar-assistant/pkg/telegram"
)

// @title       Calendar Assistant API
// @description Telegram bot that turns chat messages into Google Calendar events via an LLM.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Calendar Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if cfg.Telegram.BotToken == "" {
		logger.Error(ctx, "TELEGRAM_BOT_TOKEN is required")
		return
	}

	// 3. Telegram Bot client
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)

	// 4. LLM provider chain
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	manager := llmprovider.NewManager(providers, managerConfig(cfg), logger)
	logger.Infof(ctx, "LLM providers initialized: %d", len(providers))

	// 5. Date normalizer
	timezone := cfg.GoogleCalendar.Timezone
	normalizer, err := datemath.NewNormalizer(timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", timezone, err)
		timezone = "UTC"
		normalizer, _ = datemath.NewNormalizer(timezone)
	}

	// 6. Google Calendar client (optional until credentials are provisioned)
	var calendarClient usecase.Calendar
	if cfg.GoogleCalendar.CredentialsPath != "" {
		client, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available: %v", calErr)
			logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
		} else {
			calendarClient = client
			logger.Info(ctx, "Google Calendar initialized")
		}
	} else {
		logger.Warn(ctx, "google_calendar.credentials_path not set; events cannot be created")
	}

	// 7. Event domain
	eventUC := usecase.New(logger, manager, calendarClient, normalizer, timezone, cfg.GoogleCalendar.CalendarID)
	telegramHandler := tgDelivery.New(logger, eventUC, telegramBot)

	// 8. Webhook registration: auto-detect ngrok or fall back to manual config
	webhookURL := cfg.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
		if ngrokErr != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
		} else {
			webhookURL = ngrokURL + "/webhook/telegram"
			logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
		}
	}
	if webhookURL != "" {
		if whErr := telegramBot.SetWebhook(ctx, webhookURL); whErr != nil {
			logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
		} else {
			logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
		}
	}

	// 9. HTTP server
	httpServer, err := httpserver.New(httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Webhook:         cfg.Webhook,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// managerConfig translates config durations into llmprovider.Config.
func managerConfig(cfg *config.Config) *llmprovider.Config {
	retryDelay, err := time.ParseDuration(cfg.LLM.RetryDelay)
	if err != nil {
		retryDelay = time.Second
	}
	maxTotal, err := time.ParseDuration(cfg.LLM.MaxTotalTimeout)
	if err != nil {
		maxTotal = 60 * time.Second
	}

	return &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      retryDelay,
		MaxTotalTimeout: maxTotal,
	}
}
