package services

import (
	"context"
	"errors"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decision is the outcome of an access check against a target that exists.
// Missing targets surface as ErrBoardNotFound/ErrTaskNotFound instead, so
// handlers can distinguish 404 from 403.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

func allow(reason string) *Decision {
	return &Decision{Allowed: true, Reason: reason}
}

func deny(reason string) *Decision {
	return &Decision{Allowed: false, Reason: reason}
}

// Policy decides whether an actor may perform an action on a target entity.
// For creation checks the target is the owning board, since the entity does
// not exist yet. Decisions are pure reads over current store state; membership
// is re-queried on every call because it changes between requests.
type Policy interface {
	Can(ctx context.Context, actor *models.User, action Action, targetID uuid.UUID) (*Decision, error)
}

type BoardPolicy struct {
	db *gorm.DB
}

func NewBoardPolicy(db *gorm.DB) *BoardPolicy {
	return &BoardPolicy{db: db}
}

func (p *BoardPolicy) Can(ctx context.Context, actor *models.User, action Action, boardID uuid.UUID) (*Decision, error) {
	board, err := findBoard(ctx, p.db, boardID)
	if err != nil {
		return nil, err
	}

	if action == ActionDelete {
		if board.OwnerID == actor.ID {
			return allow("board owner"), nil
		}
		if actor.IsSuperuser {
			return allow("superuser"), nil
		}
		return deny("only the board owner may delete a board"), nil
	}

	member, err := isBoardMember(ctx, p.db, board, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return deny("not a member of this board"), nil
	}
	return allow("board member"), nil
}

type TaskPolicy struct {
	db *gorm.DB
}

func NewTaskPolicy(db *gorm.DB) *TaskPolicy {
	return &TaskPolicy{db: db}
}

// Can evaluates task access. For ActionCreate targetID is the board the task
// would be created on; for everything else it is the task id.
func (p *TaskPolicy) Can(ctx context.Context, actor *models.User, action Action, targetID uuid.UUID) (*Decision, error) {
	if action == ActionCreate {
		board, err := findBoard(ctx, p.db, targetID)
		if err != nil {
			return nil, err
		}
		member, err := isBoardMember(ctx, p.db, board, actor.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return deny("not a member of this board"), nil
		}
		return allow("board member"), nil
	}

	task, err := findTask(ctx, p.db, targetID)
	if err != nil {
		return nil, err
	}
	board, err := findBoard(ctx, p.db, task.BoardID)
	if err != nil {
		return nil, err
	}

	if action == ActionDelete {
		if board.OwnerID == actor.ID {
			return allow("board owner"), nil
		}
		if task.CreatorID != nil && *task.CreatorID == actor.ID {
			return allow("task creator"), nil
		}
		return deny("only the board owner or the task creator may delete a task"), nil
	}

	member, err := isBoardMember(ctx, p.db, board, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return deny("not a member of this board"), nil
	}
	return allow("board member"), nil
}

type CommentPolicy struct {
	db *gorm.DB
}

func NewCommentPolicy(db *gorm.DB) *CommentPolicy {
	return &CommentPolicy{db: db}
}

// Can evaluates comment access. targetID is always the task carrying the
// comments; scoping a delete to one comment id is done by the comment service.
func (p *CommentPolicy) Can(ctx context.Context, actor *models.User, action Action, taskID uuid.UUID) (*Decision, error) {
	task, err := findTask(ctx, p.db, taskID)
	if err != nil {
		return nil, err
	}
	board, err := findBoard(ctx, p.db, task.BoardID)
	if err != nil {
		return nil, err
	}

	member, err := isBoardMember(ctx, p.db, board, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return deny("not a member of this board"), nil
	}
	return allow("board member"), nil
}

func findBoard(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Board, error) {
	var board models.Board
	if err := db.WithContext(ctx).First(&board, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func findTask(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// isBoardMember reports whether the user holds member-level rights on the
// board. The owner counts even when not listed in the membership table.
func isBoardMember(ctx context.Context, db *gorm.DB, board *models.Board, userID uuid.UUID) (bool, error) {
	if board.OwnerID == userID {
		return true, nil
	}
	var count int64
	err := db.WithContext(ctx).
		Table("board_members").
		Where("board_id = ? AND user_id = ?", board.ID, userID).
		Count(&count).Error
	return count > 0, err
}
