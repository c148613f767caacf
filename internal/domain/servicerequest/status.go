package servicerequest

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

var validStatuses = map[Status]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusResolved:   true,
}

func (s Status) String() string { return string(s) }
func (s Status) IsValid() bool  { return validStatuses[s] }

func NewStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid service request status: %s", s)
	}
	return st, nil
}
