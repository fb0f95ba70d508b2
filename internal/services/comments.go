package services

import (
	"context"
	"errors"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CommentService interface {
	ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error)
	CreateComment(ctx context.Context, author *models.User, taskID uuid.UUID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, taskID, commentID uuid.UUID) error
}

type CommentServiceImpl struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentServiceImpl {
	return &CommentServiceImpl{db: db}
}

func (s *CommentServiceImpl) ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error) {
	if _, err := findTask(ctx, s.db, taskID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&comments).Error
	return comments, err
}

func (s *CommentServiceImpl) CreateComment(ctx context.Context, author *models.User, taskID uuid.UUID, content string) (*models.Comment, error) {
	task, err := findTask(ctx, s.db, taskID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, NewValidationError("content", "content must not be empty")
	}

	comment := models.Comment{
		TaskID:   task.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment is scoped to the task in the request path; a comment id that
// exists under a different task is treated as missing.
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, taskID, commentID uuid.UUID) error {
	if _, err := findTask(ctx, s.db, taskID); err != nil {
		return err
	}

	var comment models.Comment
	err := s.db.WithContext(ctx).
		Where("id = ? AND task_id = ?", commentID, taskID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Delete(&comment).Error
}
