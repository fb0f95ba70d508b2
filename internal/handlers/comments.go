package handlers

import (
	"net/http"

	"kanban-board/backend/internal/projection"
	"kanban-board/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments  services.CommentService
	policy    services.Policy
	projector projection.Service
}

func NewCommentHandler(comments services.CommentService, policy services.Policy, projector projection.Service) *CommentHandler {
	return &CommentHandler{comments: comments, policy: policy, projector: projector}
}

type commentCreateRequest struct {
	Content string `json:"content" binding:"required,max=255"`
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionRead, taskID) {
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.projector.Comments(c.Request.Context(), comments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionCreate, taskID) {
		return
	}

	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), actor, taskID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.projector.Comment(c.Request.Context(), comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionDelete, taskID) {
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), taskID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
