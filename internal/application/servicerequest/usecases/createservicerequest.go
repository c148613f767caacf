package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fixmysite/portal/internal/application/servicerequest/dto"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const channelOpenTimeout = 15 * time.Second

type CreateServiceRequestUseCase struct {
	tx          TxRunner
	requestRepo servicerequest.Repository
	ticketRepo  ticket.Repository
	userRepo    user.Repository
	channels    ChannelOpener
	alerter     Alerter
	logger      logger.Interface
}

func NewCreateServiceRequestUseCase(
	tx TxRunner,
	requestRepo servicerequest.Repository,
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	channels ChannelOpener,
	alerter Alerter,
	logger logger.Interface,
) *CreateServiceRequestUseCase {
	return &CreateServiceRequestUseCase{
		tx:          tx,
		requestRepo: requestRepo,
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		channels:    channels,
		alerter:     alerter,
		logger:      logger,
	}
}

// Execute stores the request and its ticket together, then alerts the support
// team and opens the provider channel. Neither follow-up can fail the call.
func (uc *CreateServiceRequestUseCase) Execute(ctx context.Context, userID uint, req dto.CreateServiceRequestRequest) (*dto.CreateServiceRequestResponse, error) {
	client, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to load user", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to create service request.")
	}
	if client == nil {
		return nil, errors.NewUnauthorizedError("User not found.")
	}

	sr, err := servicerequest.NewServiceRequest(userID, client.Name(), client.Email(), servicerequest.Intake{
		WebsiteURL:         strings.TrimSpace(req.WebsiteURL),
		PlatformType:       strings.TrimSpace(req.PlatformType),
		ServiceType:        req.ServiceType,
		ProblemDescription: req.ProblemDescription,
		UrgencyLevel:       strings.TrimSpace(req.UrgencyLevel),
		EstimatedQuote:     req.EstimatedQuote,
		AdditionalFeatures: req.AdditionalFeatures,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var t *ticket.Ticket
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.requestRepo.Create(ctx, sr); err != nil {
			return err
		}
		t, err = ticket.NewTicket(userID, sr.ID())
		if err != nil {
			return err
		}
		return uc.ticketRepo.Create(ctx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to create service request", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to create service request.")
	}

	uc.logger.Infow("service request created", "service_request_id", sr.ID(), "ticket_id", t.ID(), "user_id", userID)

	uc.alertSupport(ctx, sr)
	uc.openChannel(ctx, sr, t, client.PhoneNumber())

	return &dto.CreateServiceRequestResponse{ServiceRequestID: sr.ID(), TicketID: t.ID()}, nil
}

func (uc *CreateServiceRequestUseCase) alertSupport(ctx context.Context, sr *servicerequest.ServiceRequest) {
	if uc.alerter == nil {
		return
	}
	err := uc.alerter.Alert(ctx, Alert{
		Title:    fmt.Sprintf("New Service Request (#%d)", sr.ID()),
		Message:  intakeAlertMessage(sr),
		Tags:     []string{"ticket", "portal", "service-request"},
		Priority: 3,
	})
	if err != nil {
		uc.logger.Warnw("failed to send intake alert", "service_request_id", sr.ID(), "error", err)
	}
}

func intakeAlertMessage(sr *servicerequest.ServiceRequest) string {
	urgency := sr.UrgencyLevel()
	if urgency == "" {
		urgency = "n/a"
	}
	estimate := "n/a"
	if q := sr.EstimatedQuote(); q != nil {
		estimate = fmt.Sprintf("£%.2f", *q)
	}
	return strings.Join([]string{
		fmt.Sprintf("Client: %s <%s>", sr.ClientName(), sr.ClientEmail()),
		"Service: " + sr.ServiceType(),
		"Urgency: " + urgency,
		"Estimated: " + estimate,
	}, "\n")
}

func (uc *CreateServiceRequestUseCase) openChannel(ctx context.Context, sr *servicerequest.ServiceRequest, t *ticket.Ticket, phone string) {
	if uc.channels == nil {
		return
	}
	octx, cancel := context.WithTimeout(ctx, channelOpenTimeout)
	defer cancel()

	channelID, err := uc.channels.OpenTicketChannel(octx, TicketChannel{Request: sr, TicketID: t.ID(), Phone: phone})
	if err != nil {
		uc.logger.Warnw("failed to open ticket channel", "service_request_id", sr.ID(), "ticket_id", t.ID(), "error", err)
		return
	}

	if err := uc.ticketRepo.SetChannelID(ctx, t.ID(), channelID); err != nil {
		uc.logger.Errorw("failed to store ticket channel", "ticket_id", t.ID(), "channel_id", channelID, "error", err)
		return
	}
	if err := uc.requestRepo.MarkDiscordNotified(ctx, sr.ID()); err != nil {
		uc.logger.Warnw("failed to flag service request as notified", "service_request_id", sr.ID(), "error", err)
	}
	t.AttachChannel(channelID)
}
