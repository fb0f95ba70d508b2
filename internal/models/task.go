package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusToDo       Status = "to-do"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to exactly one board. Assignee and reviewer are optional and
// must be board members at the time they are written. The creator is recorded
// at creation and never changes.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	BoardID     uuid.UUID `json:"board_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:63;not null"`
	Description string    `json:"description" gorm:"size:127"`
	Status      Status    `json:"status" gorm:"size:20;not null;default:'to-do'"`
	Priority    Priority  `json:"priority" gorm:"size:10;not null;default:'medium'"`

	AssigneeID *uuid.UUID `json:"assignee_id" gorm:"type:uuid"`
	ReviewerID *uuid.UUID `json:"reviewer_id" gorm:"type:uuid"`
	CreatorID  *uuid.UUID `json:"creator_id" gorm:"type:uuid"`

	DueDate time.Time `json:"due_date" gorm:"not null"`

	Board    Board     `json:"board,omitempty" gorm:"foreignKey:BoardID"`
	Assignee *User     `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	Reviewer *User     `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	Creator  *User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:TaskID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}
