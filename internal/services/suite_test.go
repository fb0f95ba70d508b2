package services_test

import (
	"time"

	"kanban-board/backend/internal/models"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(s *suite.Suite) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	err = db.AutoMigrate(&models.User{}, &models.Board{}, &models.Task{}, &models.Comment{})
	s.Require().NoError(err)

	return db
}

func createUser(s *suite.Suite, db *gorm.DB, name string) *models.User {
	user := &models.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "hashed-password",
	}
	s.Require().NoError(db.Create(user).Error)
	return user
}

func createBoard(s *suite.Suite, db *gorm.DB, owner *models.User, title string, members ...*models.User) *models.Board {
	board := &models.Board{
		Title:   title,
		OwnerID: owner.ID,
	}
	s.Require().NoError(db.Create(board).Error)
	for _, member := range members {
		s.Require().NoError(db.Model(board).Association("Members").Append(member))
	}
	return board
}

func createTask(s *suite.Suite, db *gorm.DB, board *models.Board, creator *models.User, title string) *models.Task {
	creatorID := creator.ID
	task := &models.Task{
		BoardID:   board.ID,
		Title:     title,
		Status:    models.StatusToDo,
		Priority:  models.PriorityMedium,
		CreatorID: &creatorID,
		DueDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(db.Create(task).Error)
	return task
}

func createComment(s *suite.Suite, db *gorm.DB, task *models.Task, author *models.User, content string) *models.Comment {
	comment := &models.Comment{
		TaskID:   task.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	s.Require().NoError(db.Create(comment).Error)
	return comment
}
