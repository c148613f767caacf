package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in-progress"
	StatusClosed     TicketStatus = "closed"
	StatusCompleted  TicketStatus = "completed"
	StatusResolved   TicketStatus = "resolved"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusClosed:     true,
	StatusCompleted:  true,
	StatusResolved:   true,
}

// Statuses accepted by the status command. closed is reached only through close.
var settableTicketStatuses = map[TicketStatus]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusResolved:   true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) IsSettable() bool {
	return settableTicketStatuses[ts]
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

// IsTerminal reports closed and its display aliases completed and resolved.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusClosed || ts == StatusCompleted || ts == StatusResolved
}

// NotifiesClient reports whether entering this status emails the ticket owner.
func (ts TicketStatus) NotifiesClient() bool {
	return ts == StatusInProgress || ts == StatusCompleted || ts == StatusResolved
}

// Label renders the status for people, e.g. "In Progress".
func (ts TicketStatus) Label() string {
	// Casers are stateful, so one is built per call.
	return cases.Title(language.English).String(strings.ReplaceAll(string(ts), "-", " "))
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
