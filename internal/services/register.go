package services

import (
	"context"
	"errors"
	"strings"

	"kanban-board/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegistrationRequest struct {
	Fullname         string `json:"fullname" binding:"required,min=1,max=63"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	RepeatedPassword string `json:"repeated_password" binding:"required"`
}

type RegisterService interface {
	RegisterUser(ctx context.Context, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct {
	db *gorm.DB
}

func NewRegisterService(db *gorm.DB) *RegisterServiceImpl {
	return &RegisterServiceImpl{db: db}
}

// RegisterUser creates an account. The full name doubles as the unique
// username, matching how it is rendered everywhere else.
func (s *RegisterServiceImpl) RegisterUser(ctx context.Context, req RegistrationRequest) (*models.User, error) {
	req.Fullname = strings.TrimSpace(req.Fullname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Password != req.RepeatedPassword {
		return nil, NewValidationError("repeated_password", "passwords do not match")
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, NewValidationError("email", "email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Where("username = ?", req.Fullname).First(&existing).Error; err == nil {
		return nil, NewValidationError("fullname", "an account with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Fullname,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
