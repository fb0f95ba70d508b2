package handlers

import (
	"net/http"

	"kanban-board/backend/internal/projection"
	"kanban-board/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type BoardHandler struct {
	boards    services.BoardService
	policy    services.Policy
	projector projection.Service
}

func NewBoardHandler(boards services.BoardService, policy services.Policy, projector projection.Service) *BoardHandler {
	return &BoardHandler{boards: boards, policy: policy, projector: projector}
}

type boardCreateRequest struct {
	Title   string      `json:"title" binding:"required,max=63"`
	Members []uuid.UUID `json:"members"`
}

type boardUpdateRequest struct {
	Title   *string      `json:"title" binding:"omitempty,max=63"`
	Members *[]uuid.UUID `json:"members"`
}

func (h *BoardHandler) ListBoards(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	boards, err := h.boards.ListBoards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]projection.BoardSummaryView, 0, len(boards))
	for i := range boards {
		view, err := h.projector.BoardSummary(c.Request.Context(), &boards[i])
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, *view)
	}
	c.JSON(http.StatusOK, views)
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req boardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boards.CreateBoard(c.Request.Context(), actor, req.Title, req.Members)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.projector.BoardSummary(c.Request.Context(), board)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, "board_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionRead, boardID) {
		return
	}

	board, err := h.boards.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.projector.BoardDetail(c.Request.Context(), board, projection.OpRetrieve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, "board_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionUpdate, boardID) {
		return
	}

	var req boardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boards.UpdateBoard(c.Request.Context(), boardID, services.BoardPatch{
		Title:     req.Title,
		MemberIDs: req.Members,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.projector.BoardDetail(c.Request.Context(), board, projection.OpPartialUpdate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, "board_id")
	if !ok {
		return
	}
	if !authorize(c, h.policy, actor, services.ActionDelete, boardID) {
		return
	}

	if err := h.boards.DeleteBoard(c.Request.Context(), boardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
