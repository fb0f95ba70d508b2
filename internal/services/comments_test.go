package services_test

import (
	"context"
	"testing"

	"kanban-board/backend/internal/models"
	"kanban-board/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CommentServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.CommentService

	owner  *models.User
	member *models.User
	board  *models.Board
	task   *models.Task
}

func (suite *CommentServiceTestSuite) SetupTest() {
	suite.db = newTestDB(&suite.Suite)
	suite.service = services.NewCommentService(suite.db)

	suite.owner = createUser(&suite.Suite, suite.db, "owner")
	suite.member = createUser(&suite.Suite, suite.db, "member")
	suite.board = createBoard(&suite.Suite, suite.db, suite.owner, "Project", suite.member)
	suite.task = createTask(&suite.Suite, suite.db, suite.board, suite.member, "Write docs")
}

func (suite *CommentServiceTestSuite) TestCreateAndList() {
	first, err := suite.service.CreateComment(context.Background(), suite.member, suite.task.ID, "first")
	suite.Require().NoError(err)
	suite.Equal(suite.member.ID, first.AuthorID)
	suite.False(first.CreatedAt.IsZero())

	_, err = suite.service.CreateComment(context.Background(), suite.owner, suite.task.ID, "second")
	suite.Require().NoError(err)

	comments, err := suite.service.ListComments(context.Background(), suite.task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(comments, 2)
	suite.Equal("first", comments[0].Content)
	suite.Equal("second", comments[1].Content)
}

func (suite *CommentServiceTestSuite) TestCreateEmptyContent() {
	_, err := suite.service.CreateComment(context.Background(), suite.member, suite.task.ID, "")

	verr, ok := services.AsValidationError(err)
	suite.Require().True(ok)
	suite.Contains(verr.Fields, "content")
}

func (suite *CommentServiceTestSuite) TestCreateOnMissingTask() {
	id, _ := uuid.NewV4()
	_, err := suite.service.CreateComment(context.Background(), suite.member, id, "hello")
	suite.ErrorIs(err, services.ErrTaskNotFound)
}

func (suite *CommentServiceTestSuite) TestListOnMissingTask() {
	id, _ := uuid.NewV4()
	_, err := suite.service.ListComments(context.Background(), id)
	suite.ErrorIs(err, services.ErrTaskNotFound)
}

func (suite *CommentServiceTestSuite) TestDeleteScopedToTask() {
	comment, err := suite.service.CreateComment(context.Background(), suite.member, suite.task.ID, "hello")
	suite.Require().NoError(err)

	otherTask := createTask(&suite.Suite, suite.db, suite.board, suite.owner, "Other")

	err = suite.service.DeleteComment(context.Background(), otherTask.ID, comment.ID)
	suite.ErrorIs(err, services.ErrCommentNotFound, "a comment under another task is treated as missing")

	suite.Require().NoError(suite.service.DeleteComment(context.Background(), suite.task.ID, comment.ID))

	comments, err := suite.service.ListComments(context.Background(), suite.task.ID)
	suite.Require().NoError(err)
	suite.Empty(comments)
}

func TestCommentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommentServiceTestSuite))
}
