package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/telebot.v3"

	"md5hit-bot/config"
	"md5hit-bot/handlers"
	"md5hit-bot/middleware"
	"md5hit-bot/predictor"
	"md5hit-bot/service"
	"md5hit-bot/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Failed to load config:", err)
	}
	if cfg.Telegram.BotToken == "" {
		log.Fatal("❌ BOT_TOKEN is not set")
	}

	store := storage.Open(cfg.Ledger.DataFile, cfg.Ledger.VoucherFile)

	mirror := storage.ConnectMirror(cfg.Mongo.URI, cfg.Mongo.Database)
	defer mirror.Disconnect()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️ Redis unavailable, falling back to in-memory cooldowns: %v", err)
			redisClient = nil
		} else {
			log.Println("✅ Connected to Redis")
		}
		cancel()
	}

	pref := telebot.Settings{
		Token: cfg.Telegram.BotToken,
		Client: &http.Client{
			Timeout: 2 * time.Minute,
		},
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatal(err)
	}

	svc := service.New(store, cfg.Ledger, predictor.New(cfg.Ledger.Predictor), mirror,
		&handlers.BotNotifier{Bot: bot})
	if err := svc.SeedFreeVoucher(); err != nil {
		log.Printf("⚠️ Failed to seed free voucher: %v", err)
	}

	ent := svc.Entitlements()

	// The bot only talks in DMs; group chats get a short refusal.
	bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if ent.IsSuperAdmin(c.Sender().ID) {
				return next(c)
			}
			if c.Chat().Type != telebot.ChatPrivate {
				return c.Send("❌ Bot chỉ hoạt động trong tin nhắn riêng.")
			}
			return next(c)
		}
	})
	bot.Use(middleware.NewAntiSpam(redisClient, ent.IsSuperAdmin).Middleware)

	handlers.New(svc, cfg).Register(bot)

	// Keep-alive endpoint for free-tier hosts that sleep idle processes.
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := mirror.HealthCheck(r.Context()); err != nil {
				http.Error(w, "mirror unavailable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		log.Printf("✅ Keep-alive listening on %s", cfg.HealthAddr)
		if err := http.ListenAndServe(cfg.HealthAddr, mux); err != nil {
			log.Printf("⚠️ Keep-alive server stopped: %v", err)
		}
	}()

	log.Println("✅ Bot started")
	bot.Start()
}
