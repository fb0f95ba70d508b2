package services

import (
	"context"
	"encoding/json"
	"time"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(ctx context.Context, creator *models.User, input TaskCreateInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	ListReviewedBy(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
}

type TaskCreateInput struct {
	BoardID     uuid.UUID
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
	AssigneeID  *uuid.UUID
	ReviewerID  *uuid.UUID
	DueDate     time.Time
}

// TaskPatch carries a partial task update. Nil/unset fields are left
// untouched; the board and creator are immutable after creation.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	AssigneeID  NullableUUID
	ReviewerID  NullableUUID
	DueDate     *time.Time
}

// NullableUUID distinguishes an absent field from an explicit null in a
// partial update payload, so an assignment can be cleared without being
// confused with "leave as is".
type NullableUUID struct {
	Set   bool
	Valid bool
	UUID  uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Valid = false
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	id, err := uuid.FromString(s)
	if err != nil {
		return err
	}
	n.UUID = id
	n.Valid = true
	return nil
}

// Ptr returns the value as written to the store: nil for an explicit null.
func (n NullableUUID) Ptr() *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

type TaskServiceImpl struct {
	db        *gorm.DB
	validator MembershipValidator
}

func NewTaskService(db *gorm.DB, validator MembershipValidator) *TaskServiceImpl {
	return &TaskServiceImpl{db: db, validator: validator}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, creator *models.User, input TaskCreateInput) (*models.Task, error) {
	if err := validateTaskFields(input.Status, input.Priority); err != nil {
		return nil, err
	}

	board, err := findBoard(ctx, s.db, input.BoardID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateAssignments(ctx, board, input.AssigneeID, input.ReviewerID); err != nil {
		return nil, err
	}

	creatorID := creator.ID
	task := models.Task{
		BoardID:     board.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssigneeID:  input.AssigneeID,
		ReviewerID:  input.ReviewerID,
		CreatorID:   &creatorID,
		DueDate:     input.DueDate,
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) (*models.Task, error) {
	task, err := findTask(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil || patch.Priority != nil {
		status := task.Status
		if patch.Status != nil {
			status = *patch.Status
		}
		priority := task.Priority
		if patch.Priority != nil {
			priority = *patch.Priority
		}
		if err := validateTaskFields(status, priority); err != nil {
			return nil, err
		}
	}

	// Only fields present in the payload are re-validated; assignments left
	// untouched are not retroactively invalidated by membership changes.
	if patch.AssigneeID.Set || patch.ReviewerID.Set {
		board, err := findBoard(ctx, s.db, task.BoardID)
		if err != nil {
			return nil, err
		}
		var assigneeID, reviewerID *uuid.UUID
		if patch.AssigneeID.Set {
			assigneeID = patch.AssigneeID.Ptr()
		}
		if patch.ReviewerID.Set {
			reviewerID = patch.ReviewerID.Ptr()
		}
		if err := s.validator.ValidateAssignments(ctx, board, assigneeID, reviewerID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.AssigneeID.Set {
		updates["assignee_id"] = patch.AssigneeID.Ptr()
	}
	if patch.ReviewerID.Set {
		updates["reviewer_id"] = patch.ReviewerID.Ptr()
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return findTask(ctx, s.db, id)
}

// DeleteTask removes the task and its comments. Cascade-triggered comment
// deletions are an accepted side effect of the delete succeeding.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	task, err := findTask(ctx, s.db, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

func (s *TaskServiceImpl) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return s.listForMember(ctx, "tasks.assignee_id", userID)
}

func (s *TaskServiceImpl) ListReviewedBy(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return s.listForMember(ctx, "tasks.reviewer_id", userID)
}

// listForMember restricts the listing to boards the user still holds
// member-level rights on; stale assignments on left boards are not shown.
func (s *TaskServiceImpl) listForMember(ctx context.Context, column string, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Joins("JOIN boards ON boards.id = tasks.board_id").
		Joins("LEFT JOIN board_members ON board_members.board_id = tasks.board_id AND board_members.user_id = ?", userID).
		Where(column+" = ? AND (boards.owner_id = ? OR board_members.user_id IS NOT NULL)", userID, userID).
		Order("tasks.created_at").
		Find(&tasks).Error
	return tasks, err
}

func validateTaskFields(status models.Status, priority models.Priority) error {
	verr := &ValidationError{}
	if !status.Valid() {
		verr.Add("status", "status must be one of: to-do, in-progress, review, done")
	}
	if !priority.Valid() {
		verr.Add("priority", "priority must be one of: low, medium, high")
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}
