package services

import (
	"context"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// MembershipValidator enforces that assignee and reviewer references on a
// task write belong to the task's board at the moment of the write.
// Membership is mutable, so the check runs on every write, not just create.
type MembershipValidator interface {
	ValidateAssignments(ctx context.Context, board *models.Board, assigneeID, reviewerID *uuid.UUID) error
}

type MembershipValidatorImpl struct {
	db *gorm.DB
}

func NewMembershipValidator(db *gorm.DB) *MembershipValidatorImpl {
	return &MembershipValidatorImpl{db: db}
}

// ValidateAssignments returns a field-scoped ValidationError naming
// assignee_id and/or reviewer_id when the referenced users are not members
// (or the owner) of the board. A nil board is a whole-payload error.
func (v *MembershipValidatorImpl) ValidateAssignments(ctx context.Context, board *models.Board, assigneeID, reviewerID *uuid.UUID) error {
	if board == nil {
		return NewValidationError(NonFieldErrors, "board is required to validate members")
	}

	verr := &ValidationError{}

	if assigneeID != nil {
		member, err := isBoardMember(ctx, v.db, board, *assigneeID)
		if err != nil {
			return err
		}
		if !member {
			verr.Add("assignee_id", "assignee must be a member of the board")
		}
	}

	if reviewerID != nil {
		member, err := isBoardMember(ctx, v.db, board, *reviewerID)
		if err != nil {
			return err
		}
		if !member {
			verr.Add("reviewer_id", "reviewer must be a member of the board")
		}
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}
