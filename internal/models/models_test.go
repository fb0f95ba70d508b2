package models_test

import (
	"testing"
	"time"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
)

func TestStatus_Valid(t *testing.T) {
	valid := []models.Status{
		models.StatusToDo,
		models.StatusInProgress,
		models.StatusReview,
		models.StatusDone,
	}

	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Expected status '%s' to be valid", s)
		}
	}

	for _, s := range []models.Status{"", "pending", "todo", "DONE"} {
		if s.Valid() {
			t.Errorf("Expected status '%s' to be invalid", s)
		}
	}
}

func TestPriority_Valid(t *testing.T) {
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		if !p.Valid() {
			t.Errorf("Expected priority '%s' to be valid", p)
		}
	}

	for _, p := range []models.Priority{"", "urgent", "High"} {
		if p.Valid() {
			t.Errorf("Expected priority '%s' to be invalid", p)
		}
	}
}

func TestUser_Fullname(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "  Jamie Doe  ",
		Email:    "jamie@example.com",
	}

	if user.Fullname() != "Jamie Doe" {
		t.Errorf("Expected fullname 'Jamie Doe', got '%s'", user.Fullname())
	}
}

func TestTask_Fields(t *testing.T) {
	boardID := uuid.Must(uuid.NewV4())
	assigneeID := uuid.Must(uuid.NewV4())

	task := models.Task{
		ID:         uuid.Must(uuid.NewV4()),
		BoardID:    boardID,
		Title:      "Write release notes",
		Status:     models.StatusToDo,
		Priority:   models.PriorityHigh,
		AssigneeID: &assigneeID,
		DueDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	if task.BoardID != boardID {
		t.Errorf("Expected board %s, got %s", boardID, task.BoardID)
	}

	if task.AssigneeID == nil || *task.AssigneeID != assigneeID {
		t.Errorf("Expected assignee %s, got %v", assigneeID, task.AssigneeID)
	}

	if task.ReviewerID != nil {
		t.Errorf("Expected nil reviewer, got %v", task.ReviewerID)
	}
}

func TestComment_Fields(t *testing.T) {
	taskID := uuid.Must(uuid.NewV4())
	authorID := uuid.Must(uuid.NewV4())

	comment := models.Comment{
		ID:       uuid.Must(uuid.NewV4()),
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  "Looks good to me",
	}

	if comment.TaskID != taskID {
		t.Errorf("Expected task %s, got %s", taskID, comment.TaskID)
	}

	if comment.AuthorID != authorID {
		t.Errorf("Expected author %s, got %s", authorID, comment.AuthorID)
	}
}
