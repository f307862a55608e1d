package service

import (
	"backend/internal/model"

	"github.com/google/uuid"
)

// Status actions a PATCH request may carry
const (
	POActionApprove1  = "approve1"
	POActionApprove2  = "approve2"
	POActionComplete  = "complete"
	POActionSuspend   = "suspend"
	POActionUnsuspend = "unsuspend"
)

// nextApprovalStatus maps an approval action to the status it moves into
// and the single status it is legal from.
var poTransitions = map[string]struct{ from, to string }{
	POActionApprove1: {model.POApprovalDraft, model.POApprovalLevel1},
	POActionApprove2: {model.POApprovalLevel1, model.POApprovalLevel2},
	POActionComplete: {model.POApprovalLevel2, model.POApprovalCompleted},
}

// CheckTransition verifies that action is legal for the order's current
// status and actor. It returns the status the order moves into, or an
// InvalidTransitionError. COMPLETED is terminal; a suspended order rejects
// every approval action until unsuspended.
func CheckTransition(po *model.PurchaseOrder, action string, actorID uuid.UUID) (string, error) {
	current := po.ApprovalStatus

	switch action {
	case POActionSuspend:
		if current == model.POApprovalCompleted {
			return "", &InvalidTransitionError{From: current, Action: action, Reason: "completed orders cannot be suspended"}
		}
		if po.IsSuspended {
			return "", &InvalidTransitionError{From: current, Action: action, Reason: "order is already suspended"}
		}
		return current, nil

	case POActionUnsuspend:
		if !po.IsSuspended {
			return "", &InvalidTransitionError{From: current, Action: action, Reason: "order is not suspended"}
		}
		return current, nil
	}

	if po.IsSuspended {
		return "", &InvalidTransitionError{From: current, Action: action, Reason: "order is suspended"}
	}

	t, ok := poTransitions[action]
	if !ok {
		return "", &InvalidTransitionError{From: current, Action: action, Reason: "unknown status action"}
	}
	if current != t.from {
		return "", &InvalidTransitionError{From: current, Action: action, Reason: "only allowed from " + t.from}
	}

	// Actor gating: each approval stage needs a different pair of hands.
	switch action {
	case POActionApprove1:
		if po.CreatedBy != nil && *po.CreatedBy == actorID {
			return "", &InvalidTransitionError{From: current, Action: action, Reason: "creator cannot give level-1 approval"}
		}
	case POActionApprove2:
		if po.CreatedBy != nil && *po.CreatedBy == actorID {
			return "", &InvalidTransitionError{From: current, Action: action, Reason: "creator cannot give level-2 approval"}
		}
		if po.Approved1By != nil && *po.Approved1By == actorID {
			return "", &InvalidTransitionError{From: current, Action: action, Reason: "level-1 approver cannot give level-2 approval"}
		}
	}

	return t.to, nil
}
