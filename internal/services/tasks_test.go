package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kanban-board/backend/internal/models"
	"kanban-board/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.TaskService

	owner    *models.User
	member   *models.User
	outsider *models.User
	board    *models.Board
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = newTestDB(&suite.Suite)
	suite.service = services.NewTaskService(suite.db, services.NewMembershipValidator(suite.db))

	suite.owner = createUser(&suite.Suite, suite.db, "owner")
	suite.member = createUser(&suite.Suite, suite.db, "member")
	suite.outsider = createUser(&suite.Suite, suite.db, "outsider")
	suite.board = createBoard(&suite.Suite, suite.db, suite.owner, "Project", suite.member)
}

func (suite *TaskServiceTestSuite) input() services.TaskCreateInput {
	return services.TaskCreateInput{
		BoardID:     suite.board.ID,
		Title:       "Write docs",
		Description: "cover the API",
		Status:      models.StatusToDo,
		Priority:    models.PriorityHigh,
		DueDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *TaskServiceTestSuite) TestCreateTask() {
	task, err := suite.service.CreateTask(context.Background(), suite.member, suite.input())
	suite.Require().NoError(err)

	suite.Equal(suite.board.ID, task.BoardID)
	suite.Equal(models.PriorityHigh, task.Priority)
	suite.Require().NotNil(task.CreatorID)
	suite.Equal(suite.member.ID, *task.CreatorID)
	suite.Nil(task.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestCreateTaskInvalidStatus() {
	input := suite.input()
	input.Status = "archived"

	_, err := suite.service.CreateTask(context.Background(), suite.member, input)

	verr, ok := services.AsValidationError(err)
	suite.Require().True(ok)
	suite.Contains(verr.Fields, "status")
}

func (suite *TaskServiceTestSuite) TestCreateTaskMissingBoard() {
	input := suite.input()
	input.BoardID, _ = uuid.NewV4()

	_, err := suite.service.CreateTask(context.Background(), suite.member, input)
	suite.ErrorIs(err, services.ErrBoardNotFound)
}

func (suite *TaskServiceTestSuite) TestCreateTaskOutsiderAssignee() {
	input := suite.input()
	input.AssigneeID = &suite.outsider.ID

	_, err := suite.service.CreateTask(context.Background(), suite.member, input)

	verr, ok := services.AsValidationError(err)
	suite.Require().True(ok)
	suite.Contains(verr.Fields, "assignee_id")
}

func (suite *TaskServiceTestSuite) TestCreateTaskOwnerAssignee() {
	input := suite.input()
	input.AssigneeID = &suite.owner.ID

	task, err := suite.service.CreateTask(context.Background(), suite.member, input)
	suite.Require().NoError(err)
	suite.Equal(suite.owner.ID, *task.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskTitleOnly() {
	task, err := suite.service.CreateTask(context.Background(), suite.member, suite.input())
	suite.Require().NoError(err)

	title := "Revised"
	updated, err := suite.service.UpdateTask(context.Background(), task.ID, services.TaskPatch{Title: &title})
	suite.Require().NoError(err)

	suite.Equal("Revised", updated.Title)
	suite.Equal(task.Description, updated.Description)
	suite.Equal(task.Status, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskAssignee() {
	task, err := suite.service.CreateTask(context.Background(), suite.member, suite.input())
	suite.Require().NoError(err)

	patch := services.TaskPatch{
		AssigneeID: services.NullableUUID{Set: true, Valid: true, UUID: suite.member.ID},
	}
	updated, err := suite.service.UpdateTask(context.Background(), task.ID, patch)
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.AssigneeID)
	suite.Equal(suite.member.ID, *updated.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskAssigneeNotMember() {
	task, err := suite.service.CreateTask(context.Background(), suite.member, suite.input())
	suite.Require().NoError(err)

	patch := services.TaskPatch{
		AssigneeID: services.NullableUUID{Set: true, Valid: true, UUID: suite.outsider.ID},
	}
	_, err = suite.service.UpdateTask(context.Background(), task.ID, patch)

	verr, ok := services.AsValidationError(err)
	suite.Require().True(ok)
	suite.Contains(verr.Fields, "assignee_id")
}

func (suite *TaskServiceTestSuite) TestUpdateTaskClearAssignee() {
	input := suite.input()
	input.AssigneeID = &suite.member.ID
	task, err := suite.service.CreateTask(context.Background(), suite.member, input)
	suite.Require().NoError(err)

	patch := services.TaskPatch{
		AssigneeID: services.NullableUUID{Set: true, Valid: false},
	}
	updated, err := suite.service.UpdateTask(context.Background(), task.ID, patch)
	suite.Require().NoError(err)
	suite.Nil(updated.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskAbsentAssigneeUntouched() {
	input := suite.input()
	input.AssigneeID = &suite.member.ID
	task, err := suite.service.CreateTask(context.Background(), suite.member, input)
	suite.Require().NoError(err)

	status := models.StatusDone
	updated, err := suite.service.UpdateTask(context.Background(), task.ID, services.TaskPatch{Status: &status})
	suite.Require().NoError(err)

	suite.Equal(models.StatusDone, updated.Status)
	suite.Require().NotNil(updated.AssigneeID)
	suite.Equal(suite.member.ID, *updated.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskInvalidPriority() {
	task, err := suite.service.CreateTask(context.Background(), suite.member, suite.input())
	suite.Require().NoError(err)

	priority := models.Priority("urgent")
	_, err = suite.service.UpdateTask(context.Background(), task.ID, services.TaskPatch{Priority: &priority})

	verr, ok := services.AsValidationError(err)
	suite.Require().True(ok)
	suite.Contains(verr.Fields, "priority")
}

func (suite *TaskServiceTestSuite) TestUpdateTaskMissing() {
	id, _ := uuid.NewV4()
	title := "x"
	_, err := suite.service.UpdateTask(context.Background(), id, services.TaskPatch{Title: &title})
	suite.ErrorIs(err, services.ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTaskRemovesComments() {
	task, err := suite.service.CreateTask(context.Background(), suite.member, suite.input())
	suite.Require().NoError(err)
	createComment(&suite.Suite, suite.db, task, suite.member, "first")

	suite.Require().NoError(suite.service.DeleteTask(context.Background(), task.ID))

	var commentCount int64
	suite.db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentCount)
	suite.Zero(commentCount)

	suite.ErrorIs(suite.service.DeleteTask(context.Background(), task.ID), services.ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListAssignedTo() {
	input := suite.input()
	input.AssigneeID = &suite.member.ID
	_, err := suite.service.CreateTask(context.Background(), suite.member, input)
	suite.Require().NoError(err)

	tasks, err := suite.service.ListAssignedTo(context.Background(), suite.member.ID)
	suite.Require().NoError(err)
	suite.Len(tasks, 1)

	// Leaving the board hides the assignment from the listing.
	suite.Require().NoError(suite.db.Model(suite.board).Association("Members").Delete(suite.member))

	tasks, err = suite.service.ListAssignedTo(context.Background(), suite.member.ID)
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *TaskServiceTestSuite) TestListReviewedByIncludesOwnedBoards() {
	input := suite.input()
	input.ReviewerID = &suite.owner.ID
	_, err := suite.service.CreateTask(context.Background(), suite.member, input)
	suite.Require().NoError(err)

	tasks, err := suite.service.ListReviewedBy(context.Background(), suite.owner.ID)
	suite.Require().NoError(err)
	suite.Len(tasks, 1)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func TestNullableUUID_UnmarshalJSON(t *testing.T) {
	type payload struct {
		Assignee services.NullableUUID `json:"assignee_id"`
	}

	var absent payload
	assert.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Assignee.Set)

	var null payload
	assert.NoError(t, json.Unmarshal([]byte(`{"assignee_id": null}`), &null))
	assert.True(t, null.Assignee.Set)
	assert.False(t, null.Assignee.Valid)
	assert.Nil(t, null.Assignee.Ptr())

	id, _ := uuid.NewV4()
	var set payload
	assert.NoError(t, json.Unmarshal([]byte(`{"assignee_id": "`+id.String()+`"}`), &set))
	assert.True(t, set.Assignee.Set)
	assert.True(t, set.Assignee.Valid)
	assert.Equal(t, id, *set.Assignee.Ptr())

	var bad payload
	assert.Error(t, json.Unmarshal([]byte(`{"assignee_id": "nope"}`), &bad))
}
