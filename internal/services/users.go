package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"kanban-board/backend/internal/cache"
	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const directoryCacheTTL = 5 * time.Minute

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type UserServiceImpl struct {
	db    *gorm.DB
	cache cache.Cache
}

// NewUserService builds the user directory. The cache is optional; a nil
// cache means every lookup goes to the store.
func NewUserService(db *gorm.DB, c cache.Cache) *UserServiceImpl {
	return &UserServiceImpl{db: db, cache: c}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	key := directoryKey(email)

	if s.cache != nil {
		var cached models.User
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		// Best effort; a failed cache write never fails the lookup.
		_ = s.cache.Set(ctx, key, user, directoryCacheTTL)
	}
	return &user, nil
}

// DeleteUser removes the user: assignee/reviewer/creator references are
// nulled out, while owned boards and authored comments are deleted along
// with the user.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, column := range []string{"assignee_id", "reviewer_id", "creator_id"} {
			if err := tx.Model(&models.Task{}).
				Where(column+" = ?", id).
				Update(column, nil).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		var owned []models.Board
		if err := tx.Where("owner_id = ?", id).Find(&owned).Error; err != nil {
			return err
		}
		for i := range owned {
			if err := deleteBoardCascade(tx, &owned[i]); err != nil {
				return err
			}
		}

		if err := tx.Model(user).Association("Boards").Clear(); err != nil {
			return err
		}

		return tx.Delete(user).Error
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, directoryKey(user.Email))
	}
	return nil
}

func directoryKey(email string) string {
	return "directory:email:" + email
}
