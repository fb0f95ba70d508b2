package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Comment always targets a task, never a board. The author is recorded at
// creation and never changes; created_at is server-assigned.
type Comment struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID   uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	Content  string    `json:"content" gorm:"size:255;not null"`

	Task   Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		c.ID = id
	}
	return nil
}
