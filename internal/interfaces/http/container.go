package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/application/chatops"
	credentialApp "github.com/fixmysite/portal/internal/application/credential"
	requestApp "github.com/fixmysite/portal/internal/application/servicerequest"
	requestUsecases "github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	ticketApp "github.com/fixmysite/portal/internal/application/ticket"
	ticketUsecases "github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/infrastructure/auth"
	"github.com/fixmysite/portal/internal/infrastructure/config"
	"github.com/fixmysite/portal/internal/infrastructure/discord"
	"github.com/fixmysite/portal/internal/infrastructure/pubsub"
	"github.com/fixmysite/portal/internal/infrastructure/scheduler"
	"github.com/fixmysite/portal/internal/infrastructure/services"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// Container holds the infrastructure, services, handlers and background
// workers of one portal process and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	hdlrs *allHandlers

	// Realtime
	hub                  *services.TicketHub
	roomEventBus         *pubsub.RedisRoomEventBus
	roomEventBusCancel   context.CancelFunc
	roomEventBusCancelMu sync.Mutex

	// Chat provider. adapter is nil when no bot token is configured; chat
	// and channels then fall back to discord.Unavailable.
	adapter  *discord.Adapter
	chat     ticketUsecases.ChatProvider
	channels requestUsecases.ChannelOpener

	// Application services
	ticketService     *ticketApp.ServiceDDD
	requestService    *requestApp.ServiceDDD
	credentialService *credentialApp.ServiceDDD
	commands          *chatops.Dispatcher

	schedulerManager *scheduler.SchedulerManager

	jwtSvc         *auth.JWTService
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
}

// NewContainer wires every component. Nothing connects to Discord or starts
// background work until Start.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, hub, auth
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Chat provider
	if err := c.initChat(); err != nil {
		return nil, err
	}

	// Section 3: Application services and command dispatch
	if err := c.initServices(); err != nil {
		return nil, err
	}

	// Section 4: Handlers
	c.initHandlers()

	return c, nil
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

func (c *Container) Tickets() *ticketApp.ServiceDDD {
	return c.ticketService
}

// Discord returns the adapter, or nil when the bot is not configured.
func (c *Container) Discord() *discord.Adapter {
	return c.adapter
}

// Start opens the Discord gateway, subscribes to the cross-instance relay
// and starts the retention purge.
func (c *Container) Start(ctx context.Context) error {
	if err := c.StartChat(); err != nil {
		return err
	}

	if c.roomEventBus != nil {
		relayCtx, cancel := context.WithCancel(ctx)
		c.roomEventBusCancelMu.Lock()
		c.roomEventBusCancel = cancel
		c.roomEventBusCancelMu.Unlock()

		go func() {
			if err := c.roomEventBus.Subscribe(relayCtx, c.hub.HandleRelayed); err != nil && relayCtx.Err() == nil {
				c.log.Errorw("room event relay stopped", "error", err)
			}
		}()
		c.log.Infow("room event relay subscribed", "instance_id", c.roomEventBus.InstanceID())
	}

	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
	return nil
}

// StartChat opens only the Discord gateway. CLI commands that need channel
// cleanup use it without starting the rest.
func (c *Container) StartChat() error {
	if c.adapter == nil {
		c.log.Warnw("discord bot token not configured, tickets are web-only")
		return nil
	}
	return c.adapter.Open()
}

// Shutdown stops background work in reverse start order.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	c.roomEventBusCancelMu.Lock()
	if c.roomEventBusCancel != nil {
		c.roomEventBusCancel()
		c.roomEventBusCancel = nil
	}
	c.roomEventBusCancelMu.Unlock()

	if c.adapter != nil {
		if err := c.adapter.Close(); err != nil {
			c.log.Errorw("failed to close discord session", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
