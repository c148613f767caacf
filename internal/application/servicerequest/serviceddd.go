package servicerequest

import (
	"context"

	"github.com/fixmysite/portal/internal/application/servicerequest/dto"
	"github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type ServiceDDD struct {
	create *usecases.CreateServiceRequestUseCase
	list   *usecases.ListServiceRequestsUseCase
	manage *usecases.ManageServiceRequestsUseCase
}

func NewServiceDDD(
	tx usecases.TxRunner,
	requestRepo servicerequest.Repository,
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	channels usecases.ChannelOpener,
	alerter usecases.Alerter,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		create: usecases.NewCreateServiceRequestUseCase(tx, requestRepo, ticketRepo, userRepo, channels, alerter, logger),
		list:   usecases.NewListServiceRequestsUseCase(requestRepo, ticketRepo, logger),
		manage: usecases.NewManageServiceRequestsUseCase(requestRepo, logger),
	}
}

func (s *ServiceDDD) CreateServiceRequest(ctx context.Context, userID uint, req dto.CreateServiceRequestRequest) (*dto.CreateServiceRequestResponse, error) {
	return s.create.Execute(ctx, userID, req)
}

func (s *ServiceDDD) ListServiceRequests(ctx context.Context, userID uint) ([]dto.ServiceRequestDTO, error) {
	return s.list.Execute(ctx, userID)
}

func (s *ServiceDDD) ListActiveServiceRequests(ctx context.Context, userID uint) ([]dto.ActiveServiceRequestDTO, error) {
	return s.list.ExecuteActive(ctx, userID)
}

func (s *ServiceDDD) ListForSupport(ctx context.Context, status string) ([]*dto.AdminServiceRequestDTO, error) {
	return s.manage.List(ctx, status)
}

func (s *ServiceDDD) GetForSupport(ctx context.Context, id uint) (*dto.AdminServiceRequestDTO, error) {
	return s.manage.Get(ctx, id)
}

func (s *ServiceDDD) UpdateStatusForSupport(ctx context.Context, id uint, status string) (*dto.AdminServiceRequestDTO, error) {
	return s.manage.UpdateStatus(ctx, id, status)
}
