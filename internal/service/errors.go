package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound marks a missing order, line or referenced master record.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// login responses never reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidRefreshToken marks a refresh token that is unknown, already
// rotated, or past its expiry.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// ValidationError reports malformed or missing input. It never follows a
// state mutation — all validation runs before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// InvalidTransitionError reports a status change that is not legal from the
// current state or by the current actor.
type InvalidTransitionError struct {
	From   string
	Action string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from %s: %s", e.Action, e.From, e.Reason)
}

// InvalidStateError reports an operation (e.g. delete, update) attempted in a
// state that forbids it.
type InvalidStateError struct {
	State  string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %s: %s", e.State, e.Reason)
}

// Budget limit kinds
const (
	LimitKindItem  = "ITEM_LIMIT"
	LimitKindRate  = "RATE_LIMIT"
	LimitKindValue = "VALUE_LIMIT"
)

// LimitViolation attributes one exceeded ceiling to an item. Usage is the
// "<used>:<limit>" pair the client maps back to a line by item identity.
type LimitViolation struct {
	Kind   string    `json:"kind"`
	ItemID uuid.UUID `json:"item_id"`
	Usage  string    `json:"usage"`
}

// ExceededLimitsError reports every ceiling a proposed order breaks; several
// kinds may be present in one rejection.
type ExceededLimitsError struct {
	Violations []LimitViolation `json:"violations"`
}

func (e *ExceededLimitsError) Error() string {
	segments := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		segments = append(segments, v.Kind+" "+v.ItemID.String()+" "+v.Usage)
	}
	return "budget limits exceeded: " + strings.Join(segments, "; ")
}
