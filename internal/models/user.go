package models

import (
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username string    `json:"username" gorm:"unique;not null"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnedBoards []Board `json:"owned_boards,omitempty" gorm:"foreignKey:OwnerID"`
	Boards      []Board `json:"boards,omitempty" gorm:"many2many:board_members;"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		u.ID = id
	}
	return nil
}

// Fullname is the user's display name as rendered in API responses.
// The username doubles as the full name; there is no separate field.
func (u *User) Fullname() string {
	return strings.TrimSpace(u.Username)
}
