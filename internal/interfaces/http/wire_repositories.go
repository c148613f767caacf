package http

import (
	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/infrastructure/repository"
	"github.com/fixmysite/portal/internal/shared/db"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	tx             *db.TransactionManager
	userRepo       user.Repository
	ticketRepo     *repository.TicketRepository
	messageRepo    *repository.TicketMessageRepository
	requestRepo    *repository.ServiceRequestRepository
	credentialRepo *repository.CredentialRepository
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		tx:             db.NewTransactionManager(gdb),
		userRepo:       repository.NewUserRepository(gdb, log),
		ticketRepo:     repository.NewTicketRepository(gdb, log),
		messageRepo:    repository.NewTicketMessageRepository(gdb),
		requestRepo:    repository.NewServiceRequestRepository(gdb),
		credentialRepo: repository.NewCredentialRepository(gdb),
	}
}
