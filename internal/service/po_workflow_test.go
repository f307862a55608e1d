package service

import (
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransitionHappyPath(t *testing.T) {
	creator := uuid.New()
	approver1 := uuid.New()
	approver2 := uuid.New()

	po := &model.PurchaseOrder{
		ApprovalStatus: model.POApprovalDraft,
		CreatedBy:      &creator,
	}

	next, err := CheckTransition(po, POActionApprove1, approver1)
	require.NoError(t, err)
	assert.Equal(t, model.POApprovalLevel1, next)

	po.ApprovalStatus = next
	po.Approved1By = &approver1

	next, err = CheckTransition(po, POActionApprove2, approver2)
	require.NoError(t, err)
	assert.Equal(t, model.POApprovalLevel2, next)

	po.ApprovalStatus = next

	next, err = CheckTransition(po, POActionComplete, approver2)
	require.NoError(t, err)
	assert.Equal(t, model.POApprovalCompleted, next)
}

func TestCheckTransitionIllegalMoves(t *testing.T) {
	actor := uuid.New()

	tests := []struct {
		name   string
		status string
		action string
	}{
		{"approve2 from draft", model.POApprovalDraft, POActionApprove2},
		{"complete from draft", model.POApprovalDraft, POActionComplete},
		{"approve1 from level 1", model.POApprovalLevel1, POActionApprove1},
		{"complete from level 1", model.POApprovalLevel1, POActionComplete},
		{"approve1 from completed", model.POApprovalCompleted, POActionApprove1},
		{"approve2 from completed", model.POApprovalCompleted, POActionApprove2},
		{"complete from completed", model.POApprovalCompleted, POActionComplete},
		{"unknown action", model.POApprovalDraft, "reject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			po := &model.PurchaseOrder{ApprovalStatus: tt.status}
			_, err := CheckTransition(po, tt.action, actor)

			var transErr *InvalidTransitionError
			require.ErrorAs(t, err, &transErr)
			assert.Equal(t, tt.status, transErr.From)
		})
	}
}

func TestCheckTransitionActorGating(t *testing.T) {
	creator := uuid.New()
	approver1 := uuid.New()

	t.Run("creator cannot approve level 1", func(t *testing.T) {
		po := &model.PurchaseOrder{
			ApprovalStatus: model.POApprovalDraft,
			CreatedBy:      &creator,
		}
		_, err := CheckTransition(po, POActionApprove1, creator)

		var transErr *InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
	})

	t.Run("creator cannot approve level 2", func(t *testing.T) {
		po := &model.PurchaseOrder{
			ApprovalStatus: model.POApprovalLevel1,
			CreatedBy:      &creator,
			Approved1By:    &approver1,
		}
		_, err := CheckTransition(po, POActionApprove2, creator)

		var transErr *InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
	})

	t.Run("level-1 approver cannot approve level 2", func(t *testing.T) {
		po := &model.PurchaseOrder{
			ApprovalStatus: model.POApprovalLevel1,
			CreatedBy:      &creator,
			Approved1By:    &approver1,
		}
		_, err := CheckTransition(po, POActionApprove2, approver1)

		var transErr *InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
	})

	t.Run("level-1 approver may complete", func(t *testing.T) {
		po := &model.PurchaseOrder{
			ApprovalStatus: model.POApprovalLevel2,
			CreatedBy:      &creator,
			Approved1By:    &approver1,
		}
		next, err := CheckTransition(po, POActionComplete, approver1)
		require.NoError(t, err)
		assert.Equal(t, model.POApprovalCompleted, next)
	})
}

func TestCheckTransitionSuspension(t *testing.T) {
	actor := uuid.New()

	t.Run("suspended order rejects approvals", func(t *testing.T) {
		for _, action := range []string{POActionApprove1, POActionApprove2, POActionComplete} {
			po := &model.PurchaseOrder{
				ApprovalStatus: model.POApprovalDraft,
				IsSuspended:    true,
			}
			_, err := CheckTransition(po, action, actor)

			var transErr *InvalidTransitionError
			require.ErrorAs(t, err, &transErr, action)
		}
	})

	t.Run("suspend keeps approval status", func(t *testing.T) {
		po := &model.PurchaseOrder{ApprovalStatus: model.POApprovalLevel1}
		next, err := CheckTransition(po, POActionSuspend, actor)
		require.NoError(t, err)
		assert.Equal(t, model.POApprovalLevel1, next)
	})

	t.Run("suspend twice fails", func(t *testing.T) {
		po := &model.PurchaseOrder{ApprovalStatus: model.POApprovalDraft, IsSuspended: true}
		_, err := CheckTransition(po, POActionSuspend, actor)
		assert.Error(t, err)
	})

	t.Run("completed orders cannot be suspended", func(t *testing.T) {
		po := &model.PurchaseOrder{ApprovalStatus: model.POApprovalCompleted}
		_, err := CheckTransition(po, POActionSuspend, actor)
		assert.Error(t, err)
	})

	t.Run("unsuspend requires suspension", func(t *testing.T) {
		po := &model.PurchaseOrder{ApprovalStatus: model.POApprovalDraft}
		_, err := CheckTransition(po, POActionUnsuspend, actor)
		assert.Error(t, err)

		po.IsSuspended = true
		next, err := CheckTransition(po, POActionUnsuspend, actor)
		require.NoError(t, err)
		assert.Equal(t, model.POApprovalDraft, next)
	})
}
