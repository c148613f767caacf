package credential

import (
	"context"

	"github.com/fixmysite/portal/internal/application/credential/dto"
	"github.com/fixmysite/portal/internal/application/credential/usecases"
	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type ServiceDDD struct {
	store  *usecases.StoreCredentialUseCase
	list   *usecases.ListCredentialsUseCase
	reveal *usecases.RevealCredentialUseCase
	delete *usecases.DeleteCredentialUseCase
}

func NewServiceDDD(
	credentialRepo credential.Repository,
	requestRepo servicerequest.Repository,
	userRepo user.Repository,
	sealer usecases.Sealer,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		store:  usecases.NewStoreCredentialUseCase(credentialRepo, requestRepo, sealer, logger),
		list:   usecases.NewListCredentialsUseCase(credentialRepo, logger),
		reveal: usecases.NewRevealCredentialUseCase(credentialRepo, userRepo, sealer, logger),
		delete: usecases.NewDeleteCredentialUseCase(credentialRepo, logger),
	}
}

func (s *ServiceDDD) StoreCredential(ctx context.Context, userID uint, req dto.CreateCredentialRequest) (*dto.CredentialDTO, error) {
	return s.store.Execute(ctx, userID, req)
}

func (s *ServiceDDD) StoreCredentialForRequest(ctx context.Context, serviceRequestID, ownerID uint, label, secret string) (*dto.CredentialDTO, error) {
	return s.store.ExecuteForRequest(ctx, serviceRequestID, ownerID, label, secret)
}

func (s *ServiceDDD) ListCredentials(ctx context.Context, userID uint) ([]dto.CredentialDTO, error) {
	return s.list.Execute(ctx, userID)
}

func (s *ServiceDDD) ListCredentialsForRequest(ctx context.Context, serviceRequestID uint) ([]dto.CredentialDTO, error) {
	return s.list.ExecuteForRequest(ctx, serviceRequestID)
}

func (s *ServiceDDD) RevealCredential(ctx context.Context, userID, credentialID uint, password string) (*dto.RevealCredentialResponse, error) {
	return s.reveal.Execute(ctx, userID, credentialID, password)
}

func (s *ServiceDDD) RevealCredentialForRequest(ctx context.Context, serviceRequestID, credentialID uint) (*dto.RevealedCredential, error) {
	return s.reveal.ExecuteForRequest(ctx, serviceRequestID, credentialID)
}

func (s *ServiceDDD) DeleteCredential(ctx context.Context, userID, credentialID uint) error {
	return s.delete.Execute(ctx, userID, credentialID)
}
