package main

import (
	"context"
	"errors"
	"io"
	"time"

	"propertyinsights/config"
	"propertyinsights/database"
	"propertyinsights/events"
	"propertyinsights/handlers"
	"propertyinsights/llm"
	"propertyinsights/middleware"
	"propertyinsights/providers"
	"propertyinsights/routes"
	"propertyinsights/services"
	"propertyinsights/store"

	"github.com/bwmarrin/snowflake"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// run wires every component and serves until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	source, err := newDataSource(cfg, logger)
	if err != nil {
		return err
	}

	backend, err := llm.NewBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	keys, closeKeys, err := newKeyStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeKeys()

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	ids, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return eris.Wrap(err, "invalid SNOWFLAKE_NODE")
	}

	aggregator := services.NewAggregator(source, cfg.CallInterval(), cfg.FailurePolicy, logger)
	builder := services.NewReportBuilder(aggregator, services.NewSummaryGenerator(backend, logger), publisher, logger)
	session := services.NewReportSession(ids,
		services.NewChatAssistant(backend, logger),
		services.NewPodcastService(services.MockTTS{Delay: cfg.PodcastDelay}, logger),
		services.NewNarrator(services.LogSpeechEngine{Logger: logger}, logger),
		logger,
	)

	app := newServer(handlers.New(session, builder, keys, backend.Name(), logger), logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving", zap.String("addr", ":"+cfg.Port), zap.String("llm", backend.Name()))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// newServer builds the fiber app with middleware and routes.
func newServer(h *handlers.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "property-insights",
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New())

	routes.SetupRoutes(app, h)
	return app
}

// errorHandler renders unhandled errors in the response envelope.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
	}
}

func newDataSource(cfg config.Config, logger *zap.Logger) (providers.DataSource, error) {
	var source providers.DataSource = providers.NewMockSource()
	if !cfg.PostcodesIOEnabled {
		return source, nil
	}
	live, err := providers.NewPostcodesIOSource(source, cfg.PostcodesIOURL, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Administrative boundaries from postcodes.io", zap.String("url", cfg.PostcodesIOURL))
	return live, nil
}

func newKeyStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.KeyStore, func(), error) {
	switch cfg.KeyStore {
	case config.KeyStoreFile:
		logger.Info("Using file key store", zap.String("path", cfg.KeyStorePath))
		return store.NewFileStore(cfg.KeyStorePath), func() {}, nil
	case config.KeyStorePostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			database.Close(pool, logger)
			return nil, nil, err
		}
		return pg, func() { database.Close(pool, logger) }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

// newPublisher falls back to discarding events when RabbitMQ is unset or unreachable.
func newPublisher(cfg config.Config, logger *zap.Logger) events.Publisher {
	if cfg.RabbitMQURL == "" {
		return events.NopPublisher{}
	}
	pub, err := events.NewRabbitPublisher(events.RabbitConfig{
		URL:          cfg.RabbitMQURL,
		ExchangeName: cfg.RabbitMQExchange,
		Durable:      true,
	}, logger)
	if err != nil {
		logger.Warn("Report events disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	return pub
}
