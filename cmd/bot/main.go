package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/levels-bot/internal/adapters/discord"
	"github.com/jose-valero/levels-bot/internal/adapters/httpinteractions"
	"github.com/jose-valero/levels-bot/internal/app/service"
	"github.com/jose-valero/levels-bot/internal/infra/config"
	"github.com/jose-valero/levels-bot/internal/infra/logx"
	"github.com/jose-valero/levels-bot/internal/infra/metrics"
	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logx.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Error("db open", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Error("migrate", "err", err)
		os.Exit(1)
	}
	log.Info("✅ DB lista y migrada", "driver", db.Driver)

	// Repos
	levelsRepo := storage.NewLevelsRepo(db)
	configRepo := storage.NewGuildConfigRepo(db)
	moderationRepo := storage.NewModerationRepo(db)
	auditRepo := storage.NewAuditRepo(db)
	rewardsRepo := storage.NewRewardsRepo(db)
	privacyRepo := storage.NewPrivacyRepo(db)

	// Discord session: solo REST (follow-ups y registro), sin gateway
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Error("discord session", "err", err)
		os.Exit(1)
	}

	m := metrics.New()

	// Services
	levelSvc := service.NewLevelService(levelsRepo)
	configSvc := service.NewConfigService(configRepo)
	rewardsSvc := service.NewRewardsService(rewardsRepo, configRepo, discordrouter.NewRoleSync(s))
	xpSvc := service.NewXPService(moderationRepo, configRepo, rewardsSvc)
	auditSvc := service.NewAuditService(auditRepo)
	privacySvc := service.NewPrivacyService(privacyRepo)

	// Router
	r := discordrouter.NewRouter(discordrouter.Deps{
		Levels:       levelSvc,
		Settings:     configSvc,
		XP:           xpSvc,
		Rewards:      rewardsSvc,
		Audit:        auditSvc,
		Privacy:      privacySvc,
		Notifier:     discordrouter.NewNotifier(s, log, m),
		Log:          log,
		Metrics:      m,
		AdminRoleIDs: cfg.AdminRoleIDs(),
		CommandRate:  cfg.CommandRate,
		CommandBurst: cfg.CommandBurst,
	})

	if cfg.RegisterCommands {
		appID := cfg.DiscordAppID
		if appID == "" {
			u, err := s.User("@me")
			if err != nil {
				log.Error("resolving application id", "err", err)
				os.Exit(1)
			}
			appID = u.ID
		}
		if err := discordrouter.Register(s, appID, cfg.DiscordGuild, log); err != nil {
			log.Error("registrando comandos", "err", err)
			os.Exit(1)
		}
	}

	srv := httpinteractions.New(log, httpinteractions.NewVerifier(cfg.PublicKey()), r, m)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(cfg.HTTPAddr); err != nil {
			log.Error("http server", "err", err)
			os.Exit(1)
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", "err", err)
	}
	log.Info("bye")
}
