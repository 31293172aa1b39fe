package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"DnsBot/bot"
	"DnsBot/bot/chat"
	"DnsBot/bot/chat/telegram"
	"DnsBot/bot/chat/wizard"
	"DnsBot/bot/fields"
	"DnsBot/bot/workflows/domain"
	"DnsBot/bot/workflows/records"
	"DnsBot/entity"
	"DnsBot/impl/core"
	"DnsBot/internal/config"
	repository "DnsBot/internal/database"
	"DnsBot/internal/http-server/api"
	"DnsBot/internal/lib/logger"
	"DnsBot/internal/lib/sl"
	"DnsBot/internal/metrics"
	"DnsBot/internal/service/cloudflare"
	"DnsBot/internal/service/gateway"
	"DnsBot/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot and the admin API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf := config.MustLoad(configPath)
	lg := logger.SetupLogger(conf.Env, logPath)

	lg.Info("starting dnsbot", slog.String("config", configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, mongo, closeStore, err := openStore(ctx, conf, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	hub := ws.NewHub(lg)

	listeners := chat.Listeners{hub, m}
	if mongo != nil {
		listeners = append(listeners, mongo)
	}

	cf := cloudflare.NewCloudflareService(conf, lg)
	dns := gateway.NewInstrumented(cf, m, lg)
	lg.With(
		slog.String("url", conf.Cloudflare.BaseURL),
		sl.Secret("token", conf.Cloudflare.ApiToken),
	).Info("cloudflare gateway initialized")

	registry := fields.DefaultRegistry()
	if err := registry.Check(entity.RecordTypes...); err != nil {
		return fmt.Errorf("field registry: %w", err)
	}

	engine := chat.NewChatEngine(store, lg)
	engine.SetListener(listeners)
	for _, w := range records.New(dns, registry, lg).Workflows() {
		if err := engine.RegisterWorkflow(w); err != nil {
			return fmt.Errorf("register workflow: %w", err)
		}
	}

	wizards := wizard.NewEngine(store, lg)
	wizards.SetListener(listeners)
	if err := wizards.Register(domain.NewWizard(dns, lg)); err != nil {
		return fmt.Errorf("register wizard: %w", err)
	}

	conversation := bot.NewConversation(engine, wizards, dns, lg)

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetEngine(engine)
	handler.SetWizards(wizards)
	handler.SetGateway(dns)
	handler.SetRegistry(registry)

	var wg sync.WaitGroup

	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conversation, lg)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		handler.SetMessenger(telegram.Platform, tgBot.Messenger())
		lg.With(
			slog.String("bot_name", conf.Telegram.BotName),
		).Info("telegram bot initialized")

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tgBot.Start(ctx); err != nil {
				lg.Error("telegram bot", sl.Err(err))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	if conf.Listen.Enabled {
		// *** blocking start with http server ***
		if err := api.New(ctx, conf, lg, handler, hub, m.Handler()); err != nil {
			lg.Error("server start", sl.Err(err))
			stop()
			wg.Wait()
			return err
		}
	} else {
		<-ctx.Done()
	}

	wg.Wait()
	lg.Info("service stopped")
	return nil
}

// openStore connects the configured session backend. The Mongo client is
// returned separately so dialogue events can be recorded in it.
func openStore(ctx context.Context, conf *config.Config, lg *slog.Logger) (chat.SessionStore, *repository.MongoDB, func(), error) {
	switch conf.Storage.Backend {
	case config.StorageMongo:
		db, err := repository.NewMongoClient(ctx, conf, lg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("mongo client: %w", err)
		}
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
		return db, db, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				lg.Error("close mongo", sl.Err(err))
			}
		}, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		store := repository.NewRedisStore(client,
			repository.WithPrefix(conf.Redis.Prefix),
			repository.WithTTL(conf.Redis.TTL),
		)
		lg.With(
			slog.String("addr", conf.Redis.Addr),
			slog.Int("db", conf.Redis.DB),
		).Info("redis store initialized")
		return store, nil, func() {
			if err := store.Close(); err != nil {
				lg.Error("close redis", sl.Err(err))
			}
		}, nil

	default:
		lg.Warn("using in-memory session store, dialogues are lost on restart")
		return repository.NewMemoryStore(0), nil, func() {}, nil
	}
}
