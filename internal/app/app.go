package app

import (
	"context"
	"strings"

	"github.com/VladPetriv/telegram_bot/config"
	"github.com/VladPetriv/telegram_bot/internal/handlers"
	"github.com/VladPetriv/telegram_bot/internal/migrations"
	"github.com/VladPetriv/telegram_bot/internal/store"
	"github.com/VladPetriv/telegram_bot/internal/telegram"
	"github.com/VladPetriv/telegram_bot/pkg/database"
	"github.com/VladPetriv/telegram_bot/pkg/logger"
)

// Run is used to start the application.
func Run(cfg *config.Config, logger *logger.Logger) {
	client := telegram.NewClient(telegram.ClientOptions{
		APIURL:      cfg.Telegram.APIURL,
		Token:       cfg.Telegram.BotToken,
		DebugHTTP:   cfg.Debug.HTTP,
		DebugChatID: cfg.Debug.ChatID,
		Logger:      logger,
	})

	registry, err := telegram.NewRegistry(telegram.RegistryOptions{
		Commands: []telegram.CommandHandler{
			handlers.ChatIDCommand{},
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build handler registry")
	}

	dispatcher := telegram.NewDispatcher(client, registry, logger)

	switch cfg.Telegram.UpdatesType {
	case "webhook":
		runWebhook(cfg, logger, client, dispatcher)
	case "polling":
		runPolling(cfg, logger, client, dispatcher)
	default:
		logger.Fatal().Str("updatesType", cfg.Telegram.UpdatesType).Msg("unknown updates type")
	}
}

func runWebhook(cfg *config.Config, logger *logger.Logger, client *telegram.Client, dispatcher *telegram.Dispatcher) {
	server := telegram.NewWebhookServer(telegram.WebhookServerOptions{
		Dispatcher:    dispatcher,
		Logger:        logger,
		Token:         cfg.Telegram.BotToken,
		Path:          cfg.Hook.Path,
		ServerAddress: cfg.Hook.ServerAddress,
	})

	hookURL := strings.TrimSuffix(cfg.Hook.URL, "/") + server.HookPath()

	_, err := client.SetWebhook(hookURL)
	if err != nil {
		logger.Fatal().Err(err).Str("hookURL", hookURL).Msg("set webhook url")
	}

	err = server.Start()
	if err != nil {
		logger.Fatal().Err(err).Msg("start webhook server")
	}
}

func runPolling(cfg *config.Config, logger *logger.Logger, client *telegram.Client, dispatcher *telegram.Dispatcher) {
	var offsetStore telegram.OffsetStore

	// Offsets survive restarts only when a database is configured,
	// otherwise telegram redelivers the updates it still holds.
	if cfg.PostgreSQL.Database != "" {
		postgresDB, err := database.NewPostgreSQL(database.PostgreSQLOptions{
			User:     cfg.PostgreSQL.User,
			Password: cfg.PostgreSQL.Password,
			Database: cfg.PostgreSQL.Database,
			Host:     cfg.PostgreSQL.Host,
			Port:     cfg.PostgreSQL.Port,
			SSLMode:  cfg.PostgreSQL.SSLMode,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to postgresql")
		}
		defer postgresDB.Close()

		err = migrations.MigrateDB(logger, postgresDB.DB, cfg.PostgreSQL.Database, migrations.Migrations)
		if err != nil {
			logger.Fatal().Err(err).Msg("migrate database")
		}

		offsetStore = store.NewOffset(postgresDB)
	}

	poller := telegram.NewPoller(telegram.PollerOptions{
		Client:     client,
		Dispatcher: dispatcher,
		Store:      offsetStore,
		Logger:     logger,
		CacheKey:   cfg.Cache.Key,
		Limit:      cfg.Poll.Limit,
		Timeout:    cfg.Poll.Timeout,
		Gap:        cfg.Poll.Gap,
		Sleep:      cfg.Poll.Sleep,
	})

	err := poller.Run(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("poll updates")
	}
}
