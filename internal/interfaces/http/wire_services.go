package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fixmysite/portal/internal/application/chatops"
	credentialApp "github.com/fixmysite/portal/internal/application/credential"
	requestApp "github.com/fixmysite/portal/internal/application/servicerequest"
	ticketApp "github.com/fixmysite/portal/internal/application/ticket"
	ticketUsecases "github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/infrastructure/auth"
	"github.com/fixmysite/portal/internal/infrastructure/config"
	"github.com/fixmysite/portal/internal/infrastructure/discord"
	"github.com/fixmysite/portal/internal/infrastructure/email"
	"github.com/fixmysite/portal/internal/infrastructure/notification"
	"github.com/fixmysite/portal/internal/infrastructure/pubsub"
	"github.com/fixmysite/portal/internal/infrastructure/scheduler"
	"github.com/fixmysite/portal/internal/infrastructure/services"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
	sharedauth "github.com/fixmysite/portal/internal/shared/auth"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/services/markdown"
)

const (
	serviceRequestRateLimit  = 10
	serviceRequestRateWindow = time.Hour
	redisPingTimeout         = 5 * time.Second
)

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Hub, Auth
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, log)

	c.hub = services.NewTicketHub(log.Named("hub"))
	if c.redis != nil {
		c.roomEventBus = pubsub.NewRedisRoomEventBus(c.redis, log.Named("relay"))
		c.hub.SetRelay(c.roomEventBus)
	}

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, sharedauth.NewAdminList(cfg.Auth.AdminUserIDs), log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, "service-requests", serviceRequestRateLimit, serviceRequestRateWindow, log)

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// ============================================================
// Section 2: Chat provider
// ============================================================

func (c *Container) initChat() error {
	if !c.cfg.Discord.Enabled() {
		c.chat = discord.Unavailable{}
		c.channels = discord.Unavailable{}
		return nil
	}

	adapter, err := discord.NewAdapter(c.cfg.Discord, c.log.Named("discord"))
	if err != nil {
		return err
	}
	c.adapter = adapter
	c.chat = adapter
	c.channels = adapter
	return nil
}

// ============================================================
// Section 3: Application services
// ============================================================

func (c *Container) initServices() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	mailer, err := email.NewMailer(cfg.Email, log.Named("email"))
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}
	template, err := email.NewNotificationTemplate(markdown.NewRenderer())
	if err != nil {
		return fmt.Errorf("failed to load email template: %w", err)
	}

	alerter := notification.NewNtfyClient(cfg.Ntfy, log.Named("ntfy"))
	notifier := notification.NewEmailDispatcher(mailer, template, alerter, cfg.Ntfy.AlertAddresses, log.Named("notify"))

	sealer, err := auth.NewAESGCMSealer(cfg.Auth.JWT.Secret)
	if err != nil {
		return fmt.Errorf("failed to create credential sealer: %w", err)
	}

	c.ticketService = ticketApp.NewServiceDDD(
		repos.tx,
		repos.ticketRepo,
		repos.messageRepo,
		repos.userRepo,
		repos.requestRepo,
		repos.credentialRepo,
		c.hub,
		c.hub,
		c.chat,
		notifier,
		ticketUsecases.BridgeConfig{
			ReadyTimeout:      cfg.Discord.ReadyTimeout,
			ArchiveCategoryID: cfg.Discord.ArchiveCategoryID,
		},
		cfg.Retention.SoftDeletedDays,
		log.Named("ticket"),
	)

	c.requestService = requestApp.NewServiceDDD(
		repos.tx,
		repos.requestRepo,
		repos.ticketRepo,
		repos.userRepo,
		c.channels,
		alerter,
		log.Named("servicerequest"),
	)

	c.credentialService = credentialApp.NewServiceDDD(
		repos.credentialRepo,
		repos.requestRepo,
		repos.userRepo,
		sealer,
		log.Named("credential"),
	)

	c.commands = chatops.NewDispatcher(c.ticketService, c.credentialService, c.requestService, repos.ticketRepo, log.Named("chatops"))
	if c.adapter != nil {
		c.adapter.Bind(c.ticketService, c.commands)
	}

	if cfg.Retention.Enabled {
		manager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		purge := scheduler.BatchJobFunc(c.ticketService.PurgeDeletedTickets)
		if err := manager.RegisterRetentionPurge(purge, cfg.Retention.Interval); err != nil {
			return fmt.Errorf("failed to register retention purge: %w", err)
		}
		c.schedulerManager = manager
	}

	return nil
}
