package handlers

import (
	"net/http"

	"kanban-board/backend/internal/models"
	"kanban-board/backend/internal/projection"
	"kanban-board/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type TaskHandler struct {
	tasks     services.TaskService
	policy    services.Policy
	projector projection.Service
}

func NewTaskHandler(tasks services.TaskService, policy services.Policy, projector projection.Service) *TaskHandler {
	return &TaskHandler{tasks: tasks, policy: policy, projector: projector}
}

type taskCreateRequest struct {
	// A missing or unknown board is a 404, not a binding error, so the field
	// is bound without a required tag.
	Board       *uuid.UUID      `json:"board"`
	Title       string          `json:"title" binding:"required,max=63"`
	Description string          `json:"description" binding:"max=127"`
	Status      models.Status   `json:"status" binding:"required"`
	Priority    models.Priority `json:"priority" binding:"required"`
	AssigneeID  *uuid.UUID      `json:"assignee_id"`
	ReviewerID  *uuid.UUID      `json:"reviewer_id"`
	DueDate     string          `json:"due_date" binding:"required"`
}

type taskUpdateRequest struct {
	Title       *string                `json:"title" binding:"omitempty,max=63"`
	Description *string                `json:"description" binding:"omitempty,max=127"`
	Status      *models.Status         `json:"status"`
	Priority    *models.Priority       `json:"priority"`
	AssigneeID  services.NullableUUID  `json:"assignee_id"`
	ReviewerID  services.NullableUUID  `json:"reviewer_id"`
	DueDate     *string                `json:"due_date"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boardID := uuid.Nil
	if req.Board != nil {
		boardID = *req.Board
	}
	if !authorize(c, h.policy, actor, services.ActionCreate, boardID) {
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), actor, services.TaskCreateInput{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		ReviewerID:  req.ReviewerID,
		DueDate:     dueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.projector.Task(c.Request.Context(), task, projection.OpCreate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionUpdate, taskID) {
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		ReviewerID:  req.ReviewerID,
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.DueDate = &dueDate
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.projector.Task(c.Request.Context(), task, projection.OpPartialUpdate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionDelete, taskID) {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *TaskHandler) AssignedToMe(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListAssignedTo(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTaskList(c, tasks)
}

func (h *TaskHandler) Reviewing(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListReviewedBy(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTaskList(c, tasks)
}

func (h *TaskHandler) respondTaskList(c *gin.Context, tasks []models.Task) {
	views, err := h.projector.Tasks(c.Request.Context(), tasks, projection.OpList)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
