// Package chatcommand models the support team's slash commands as a closed
// set of variants. Only types in this package implement Command.
package chatcommand

import "fmt"

// DeleteConfirmation is the literal the delete command must be given.
const DeleteConfirmation = "DELETE"

// Command is one decoded interaction. ChannelID is where it was issued.
type Command interface {
	Channel() string
	isCommand()
}

type base struct {
	ChannelID string
}

func (b base) Channel() string { return b.ChannelID }
func (base) isCommand()        {}

type Close struct{ base }

type SetStatus struct {
	base
	Value string
}

type Delete struct {
	base
	Confirm string
}

// Confirmed reports whether the operator typed the confirmation literal.
func (d Delete) Confirmed() bool { return d.Confirm == DeleteConfirmation }

type AddCredential struct {
	base
	Label  string
	Secret string
}

type ListCredentials struct{ base }

type RevealCredential struct {
	base
	CredentialID uint
}

type ListRequests struct {
	base
	// Status is empty when no filter was given.
	Status string
}

type ViewRequest struct {
	base
	RequestID uint
}

type UpdateRequest struct {
	base
	RequestID uint
	Status    string
}

func NewClose(channelID string) Close {
	return Close{base{channelID}}
}

func NewSetStatus(channelID, value string) SetStatus {
	return SetStatus{base{channelID}, value}
}

func NewDelete(channelID, confirm string) Delete {
	return Delete{base{channelID}, confirm}
}

func NewAddCredential(channelID, label, secret string) AddCredential {
	return AddCredential{base{channelID}, label, secret}
}

func NewListCredentials(channelID string) ListCredentials {
	return ListCredentials{base{channelID}}
}

func NewRevealCredential(channelID string, id uint) RevealCredential {
	return RevealCredential{base{channelID}, id}
}

func NewListRequests(channelID, status string) ListRequests {
	return ListRequests{base{channelID}, status}
}

func NewViewRequest(channelID string, id uint) ViewRequest {
	return ViewRequest{base{channelID}, id}
}

func NewUpdateRequest(channelID string, id uint, status string) UpdateRequest {
	return UpdateRequest{base{channelID}, id, status}
}

// RequiresTicketChannel reports whether cmd only makes sense inside a
// ticket's own channel.
func RequiresTicketChannel(cmd Command) bool {
	switch cmd.(type) {
	case ListRequests, ViewRequest, UpdateRequest:
		return false
	default:
		return true
	}
}

// Name renders the slash form of cmd for logs.
func Name(cmd Command) string {
	switch cmd.(type) {
	case Close:
		return "ticket close"
	case SetStatus:
		return "ticket status"
	case Delete:
		return "ticket delete"
	case AddCredential:
		return "credential add"
	case ListCredentials:
		return "credential list"
	case RevealCredential:
		return "credential reveal"
	case ListRequests:
		return "requests list"
	case ViewRequest:
		return "requests view"
	case UpdateRequest:
		return "requests update"
	default:
		return fmt.Sprintf("%T", cmd)
	}
}
