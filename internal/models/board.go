package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Board is a project board. The owner is fixed at creation and is always
// treated as having member-level rights, whether or not they appear in
// Members.
type Board struct {
	ID      uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title   string    `json:"title" gorm:"size:63;not null"`
	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`

	Owner   User   `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Members []User `json:"members,omitempty" gorm:"many2many:board_members;"`
	Tasks   []Task `json:"tasks,omitempty" gorm:"foreignKey:BoardID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		b.ID = id
	}
	return nil
}
