package services

import (
	"context"
	"errors"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type BoardService interface {
	ListBoards(ctx context.Context) ([]models.Board, error)
	CreateBoard(ctx context.Context, owner *models.User, title string, memberIDs []uuid.UUID) (*models.Board, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error)
	UpdateBoard(ctx context.Context, id uuid.UUID, patch BoardPatch) (*models.Board, error)
	DeleteBoard(ctx context.Context, id uuid.UUID) error
}

// BoardPatch carries the fields of a partial board update. Nil fields are
// left untouched. The owner is immutable by policy and has no patch field.
type BoardPatch struct {
	Title     *string
	MemberIDs *[]uuid.UUID
}

type BoardServiceImpl struct {
	db *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardServiceImpl {
	return &BoardServiceImpl{db: db}
}

func (s *BoardServiceImpl) ListBoards(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	err := s.db.WithContext(ctx).Order("created_at").Find(&boards).Error
	return boards, err
}

func (s *BoardServiceImpl) CreateBoard(ctx context.Context, owner *models.User, title string, memberIDs []uuid.UUID) (*models.Board, error) {
	members, err := s.resolveMembers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	board := models.Board{
		Title:   title,
		OwnerID: owner.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Model(&board).Association("Members").Append(members)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBoard(ctx, board.ID)
}

func (s *BoardServiceImpl) GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	var board models.Board
	err := s.db.WithContext(ctx).
		Preload("Members").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.created_at") }).
		First(&board, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func (s *BoardServiceImpl) UpdateBoard(ctx context.Context, id uuid.UUID, patch BoardPatch) (*models.Board, error) {
	board, err := findBoard(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	var members []models.User
	if patch.MemberIDs != nil {
		members, err = s.resolveMembers(ctx, *patch.MemberIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.Title != nil {
			if err := tx.Model(board).Update("title", *patch.Title).Error; err != nil {
				return err
			}
		}
		if patch.MemberIDs != nil {
			if err := tx.Model(board).Association("Members").Replace(members); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBoard(ctx, id)
}

// DeleteBoard removes the board, its tasks and their comments in one
// transaction. Cascade-triggered deletions are not separately reported.
func (s *BoardServiceImpl) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	board, err := findBoard(ctx, s.db, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBoardCascade(tx, board)
	})
}

func deleteBoardCascade(tx *gorm.DB, board *models.Board) error {
	taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", board.ID)
	if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("board_id = ?", board.ID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := tx.Model(board).Association("Members").Clear(); err != nil {
		return err
	}
	return tx.Delete(board).Error
}

// resolveMembers loads the referenced users, rejecting the payload when any
// id does not resolve.
func (s *BoardServiceImpl) resolveMembers(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(dedupe(ids)) {
		return nil, NewValidationError("members", "one or more members do not exist")
	}
	return users, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
