// Package chatops turns support-team slash commands into use case calls and
// renders the text replied in the chat channel.
package chatops

import (
	"context"
	"fmt"
	"strings"

	credentialdto "github.com/fixmysite/portal/internal/application/credential/dto"
	requestdto "github.com/fixmysite/portal/internal/application/servicerequest/dto"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/domain/chatcommand"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/biztime"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const (
	replyNotTicketChannel = "This command can only be used in a ticket channel."
	replyConfirmDelete    = "Please type \"DELETE\" to confirm deletion."
	replyDeleted          = "Ticket deleted successfully."
	replyDeleteFailed     = "An unexpected error occurred during deletion."
	replyCloseFailed      = "Error closing ticket."
	replyStatusFailed     = "Error updating status."
	replyCredentialStored = "Credential stored securely and linked to this ticket."
	replyCredentialFailed = "Failed to store credential. Contact support."
	replyListFailed       = "Failed to list credentials."
	replyNoCredentials    = "No credentials stored for this ticket."
	replyRevealFailed     = "Failed to decrypt credential."
	replyNoRequests       = "No service requests found."
	replyRequestsFailed   = "Failed to fetch service requests."
	replyRequestNotFound  = "Service request not found."
	replyInvalidStatus    = "Invalid status."
	replyUnknownCommand   = "Unknown command."
	maxReplyLength        = 2000
	problemExcerptLength  = 1000
)

// Reply is what the adapter posts back for one command.
type Reply struct {
	Content   string
	Ephemeral bool
}

// TicketOps is the slice of the ticket service commands drive.
type TicketOps interface {
	ChangeStatus(ctx context.Context, cmd usecases.ChangeStatusCommand) (*usecases.ChangeStatusResult, error)
	CloseTicket(ctx context.Context, ticketID uint) (*usecases.CloseTicketResult, error)
	HardDeleteTicket(ctx context.Context, ticketID uint) (*usecases.HardDeleteTicketResult, error)
}

type CredentialOps interface {
	StoreCredentialForRequest(ctx context.Context, serviceRequestID, ownerID uint, label, secret string) (*credentialdto.CredentialDTO, error)
	ListCredentialsForRequest(ctx context.Context, serviceRequestID uint) ([]credentialdto.CredentialDTO, error)
	RevealCredentialForRequest(ctx context.Context, serviceRequestID, credentialID uint) (*credentialdto.RevealedCredential, error)
}

type RequestOps interface {
	ListForSupport(ctx context.Context, status string) ([]*requestdto.AdminServiceRequestDTO, error)
	GetForSupport(ctx context.Context, id uint) (*requestdto.AdminServiceRequestDTO, error)
	UpdateStatusForSupport(ctx context.Context, id uint, status string) (*requestdto.AdminServiceRequestDTO, error)
}

// TicketLookup resolves the ticket a provider channel belongs to.
type TicketLookup interface {
	GetByChannelID(ctx context.Context, channelID string) (*ticket.Ticket, error)
}

type Dispatcher struct {
	tickets     TicketOps
	credentials CredentialOps
	requests    RequestOps
	lookup      TicketLookup
	logger      logger.Interface
}

func NewDispatcher(tickets TicketOps, credentials CredentialOps, requests RequestOps, lookup TicketLookup, logger logger.Interface) *Dispatcher {
	return &Dispatcher{
		tickets:     tickets,
		credentials: credentials,
		requests:    requests,
		lookup:      lookup,
		logger:      logger,
	}
}

// NeedsDeferral reports whether the adapter must acknowledge the interaction
// before Dispatch runs, because the work may outlast the provider's reply
// window. The deferred reply is ephemeral.
func NeedsDeferral(cmd chatcommand.Command) bool {
	d, ok := cmd.(chatcommand.Delete)
	return ok && d.Confirmed()
}

func (d *Dispatcher) Dispatch(ctx context.Context, cmd chatcommand.Command) Reply {
	d.logger.Infow("chat command received", "command", chatcommand.Name(cmd), "channel_id", cmd.Channel())

	if !chatcommand.RequiresTicketChannel(cmd) {
		return d.dispatchRequests(ctx, cmd)
	}

	t, err := d.lookup.GetByChannelID(ctx, cmd.Channel())
	if err != nil {
		d.logger.Errorw("failed to resolve ticket channel", "channel_id", cmd.Channel(), "error", err)
	}
	if err != nil || t == nil {
		return ephemeral(replyNotTicketChannel)
	}

	switch c := cmd.(type) {
	case chatcommand.Close:
		return d.close(ctx, t)
	case chatcommand.SetStatus:
		return d.setStatus(ctx, t, c)
	case chatcommand.Delete:
		return d.delete(ctx, t, c)
	case chatcommand.AddCredential:
		if _, err := d.credentials.StoreCredentialForRequest(ctx, t.ServiceRequestID(), t.UserID(), c.Label, c.Secret); err != nil {
			return ephemeral(replyCredentialFailed)
		}
		return ephemeral(replyCredentialStored)
	case chatcommand.ListCredentials:
		return d.listCredentials(ctx, t)
	case chatcommand.RevealCredential:
		return d.revealCredential(ctx, t, c)
	default:
		return ephemeral(replyUnknownCommand)
	}
}

func (d *Dispatcher) close(ctx context.Context, t *ticket.Ticket) Reply {
	res, err := d.tickets.CloseTicket(ctx, t.ID())
	if err != nil {
		return ephemeral(replyCloseFailed)
	}
	switch res.Archive {
	case usecases.ArchiveMoved:
		return public("Ticket closed and moved to archive.")
	case usecases.ArchiveFailed:
		return public("Ticket closed. Archive operation failed.")
	default:
		return public("Ticket closed. Consider setting up an archive category.")
	}
}

func (d *Dispatcher) setStatus(ctx context.Context, t *ticket.Ticket, c chatcommand.SetStatus) Reply {
	res, err := d.tickets.ChangeStatus(ctx, usecases.ChangeStatusCommand{TicketID: t.ID(), Status: c.Value})
	if err != nil {
		if errors.IsValidationError(err) {
			return ephemeral(replyInvalidStatus)
		}
		return ephemeral(replyStatusFailed)
	}
	return public(fmt.Sprintf("Ticket status updated to **%s**.", res.Status.Label()))
}

func (d *Dispatcher) delete(ctx context.Context, t *ticket.Ticket, c chatcommand.Delete) Reply {
	if !c.Confirmed() {
		return ephemeral(replyConfirmDelete)
	}
	if _, err := d.tickets.HardDeleteTicket(ctx, t.ID()); err != nil {
		return ephemeral(replyDeleteFailed)
	}
	return ephemeral(replyDeleted)
}

func (d *Dispatcher) listCredentials(ctx context.Context, t *ticket.Ticket) Reply {
	list, err := d.credentials.ListCredentialsForRequest(ctx, t.ServiceRequestID())
	if err != nil {
		return ephemeral(replyListFailed)
	}
	if len(list) == 0 {
		return ephemeral(replyNoCredentials)
	}

	lines := make([]string, 0, len(list))
	for _, c := range list {
		name := c.Label
		if name == "" {
			name = c.Username
		}
		if name == "" {
			name = "Credential"
		}
		lines = append(lines, fmt.Sprintf("#%d • %s • saved %s", c.ID, name, biztime.FormatDateTime(c.CreatedAt)))
	}
	return ephemeral(strings.Join(lines, "\n"))
}

func (d *Dispatcher) revealCredential(ctx context.Context, t *ticket.Ticket, c chatcommand.RevealCredential) Reply {
	got, err := d.credentials.RevealCredentialForRequest(ctx, t.ServiceRequestID(), c.CredentialID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return ephemeral(errors.GetAppError(err).Message)
		}
		return ephemeral(replyRevealFailed)
	}
	return ephemeral(fmt.Sprintf("%s: %s", got.Name, got.Secret))
}

func (d *Dispatcher) dispatchRequests(ctx context.Context, cmd chatcommand.Command) Reply {
	switch c := cmd.(type) {
	case chatcommand.ListRequests:
		list, err := d.requests.ListForSupport(ctx, c.Status)
		if err != nil {
			return requestError(err, replyRequestsFailed)
		}
		if len(list) == 0 {
			return ephemeral(replyNoRequests)
		}
		lines := make([]string, 0, len(list))
		for _, sr := range list {
			lines = append(lines, fmt.Sprintf("**#%d** • %s • %s • %s <%s> • %s",
				sr.ID, sr.ServiceType, sr.Status, sr.ClientName, sr.ClientEmail, biztime.FormatDate(sr.CreatedAt)))
		}
		return ephemeral(truncate(strings.Join(lines, "\n"), maxReplyLength))
	case chatcommand.ViewRequest:
		sr, err := d.requests.GetForSupport(ctx, c.RequestID)
		if err != nil {
			return requestError(err, replyRequestsFailed)
		}
		return ephemeral(truncate(formatRequest(sr), maxReplyLength))
	case chatcommand.UpdateRequest:
		sr, err := d.requests.UpdateStatusForSupport(ctx, c.RequestID, c.Status)
		if err != nil {
			return requestError(err, "Failed to update service request.")
		}
		return public(fmt.Sprintf("Service request #%d updated to **%s**.", sr.ID, sr.Status))
	default:
		return ephemeral(replyUnknownCommand)
	}
}

func requestError(err error, fallback string) Reply {
	switch {
	case errors.IsNotFoundError(err):
		return ephemeral(replyRequestNotFound)
	case errors.IsValidationError(err):
		return ephemeral(replyInvalidStatus)
	default:
		return ephemeral(fallback)
	}
}

func formatRequest(sr *requestdto.AdminServiceRequestDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Service Request #%d** (%s)\n", sr.ID, sr.Status)
	fmt.Fprintf(&b, "Client: %s <%s>\n", sr.ClientName, sr.ClientEmail)
	fmt.Fprintf(&b, "Service: %s\n", sr.ServiceType)
	fmt.Fprintf(&b, "Platform: %s\n", orNA(sr.PlatformType))
	fmt.Fprintf(&b, "Website: %s\n", orNA(sr.WebsiteURL))
	fmt.Fprintf(&b, "Urgency: %s\n", orNA(sr.UrgencyLevel))
	if sr.EstimatedQuote != nil {
		fmt.Fprintf(&b, "Estimated: £%.2f\n", *sr.EstimatedQuote)
	}
	for _, f := range sr.AdditionalFeatures {
		fmt.Fprintf(&b, "• %s (+£%.2f)\n", f.Name, f.Price)
	}
	fmt.Fprintf(&b, "Submitted: %s\n", biztime.FormatDateTime(sr.CreatedAt))
	fmt.Fprintf(&b, "\n%s", truncate(sr.ProblemDescription, problemExcerptLength))
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func ephemeral(content string) Reply { return Reply{Content: content, Ephemeral: true} }
func public(content string) Reply    { return Reply{Content: content} }
