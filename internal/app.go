package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/adapters/civitai"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/adapters/jsonstore"
	logger_adapter "github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/adapters/logger"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/adapters/mediafetch"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/adapters/rest"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/configs"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/usecase"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/pkg/fluentlogger"
)

// App wires configuration, logging, adapters and use cases together and
// owns their lifecycle.
type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. Logger initialization ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. Adapters ---
	favoritesRepo := jsonstore.NewFavoritesRepository(
		appConfig.Favorites.FilePath,
		baseLogger.WithFields(port.Fields{"component": "favorites-store"}),
	)

	galleryAdapter := civitai.NewCivitaiAdapter(civitai.Config{
		BaseURL:        appConfig.Upstream.BaseURL,
		MirrorBaseURL:  appConfig.Upstream.MirrorBaseURL,
		RequestTimeout: time.Duration(appConfig.Upstream.TimeoutMs) * time.Millisecond,
	})

	mediaClient := mediafetch.NewClient(time.Duration(appConfig.Media.TimeoutMs) * time.Millisecond)

	appLogger.Info("All persistence and upstream adapters initialized.", nil)

	// --- 3. Use cases ---
	aggregateUC := usecase.NewAggregateStreamUseCase(galleryAdapter)
	toggleUC := usecase.NewToggleFavoriteUseCase(favoritesRepo)
	upsertUC := usecase.NewUpsertFavoriteUseCase(favoritesRepo)
	listUC := usecase.NewListFavoritesUseCase(favoritesRepo)
	pageUC := usecase.NewGetFavoritesPageUseCase(favoritesRepo)
	updateTagsUC := usecase.NewUpdateFavoriteTagsUseCase(favoritesRepo)
	listTagsUC := usecase.NewListFavoriteTagsUseCase(favoritesRepo)
	selectionUC := usecase.NewResolveSelectionUseCase(mediaClient)
	checkWorkflowUC := usecase.NewCheckWorkflowUseCase(mediaClient)

	// --- 4. REST API server ---
	favoritesHandler := rest.NewFavoritesHandler(listUC, toggleUC, upsertUC, pageUC, updateTagsUC, listTagsUC)
	streamHandler := rest.NewStreamHandler(aggregateUC)
	mediaHandler := rest.NewMediaHandler(checkWorkflowUC, mediaClient)
	nodeHandler := rest.NewNodeHandler(selectionUC)
	apiServer := rest.NewServer(appConfig.Rest.Port, favoritesHandler, streamHandler, mediaHandler, nodeHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:    appConfig,
		apiServer: apiServer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run starts all application components and manages their lifecycle.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Log to stdout since fluent may already be unreachable.
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
