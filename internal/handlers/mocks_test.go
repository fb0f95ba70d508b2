package handlers_test

import (
	"context"

	"kanban-board/backend/internal/middleware"
	"kanban-board/backend/internal/models"
	"kanban-board/backend/internal/projection"
	"kanban-board/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "Test User",
		Email:    "test@example.com",
	}
}

// fakeAuth injects the acting user the way the auth middleware would.
func fakeAuth(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CurrentUserKey, user)
		c.Next()
	}
}

type stubPolicy struct {
	decision *services.Decision
	err      error
}

func (p *stubPolicy) Can(ctx context.Context, actor *models.User, action services.Action, targetID uuid.UUID) (*services.Decision, error) {
	return p.decision, p.err
}

func allowAll() *stubPolicy {
	return &stubPolicy{decision: &services.Decision{Allowed: true, Reason: "test"}}
}

func denyAll() *stubPolicy {
	return &stubPolicy{decision: &services.Decision{Allowed: false, Reason: "not a member of this board"}}
}

type mockBoardService struct {
	board     *models.Board
	boards    []models.Board
	err       error
	lastPatch services.BoardPatch
	deletedID uuid.UUID
}

func (m *mockBoardService) ListBoards(ctx context.Context) ([]models.Board, error) {
	return m.boards, m.err
}

func (m *mockBoardService) CreateBoard(ctx context.Context, owner *models.User, title string, memberIDs []uuid.UUID) (*models.Board, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.board, nil
}

func (m *mockBoardService) GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.board, nil
}

func (m *mockBoardService) UpdateBoard(ctx context.Context, id uuid.UUID, patch services.BoardPatch) (*models.Board, error) {
	m.lastPatch = patch
	if m.err != nil {
		return nil, m.err
	}
	return m.board, nil
}

func (m *mockBoardService) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.err
}

type mockTaskService struct {
	task      *models.Task
	tasks     []models.Task
	err       error
	lastInput services.TaskCreateInput
	lastPatch services.TaskPatch
	deletedID uuid.UUID
}

func (m *mockTaskService) CreateTask(ctx context.Context, creator *models.User, input services.TaskCreateInput) (*models.Task, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, patch services.TaskPatch) (*models.Task, error) {
	m.lastPatch = patch
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.err
}

func (m *mockTaskService) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return m.tasks, m.err
}

func (m *mockTaskService) ListReviewedBy(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return m.tasks, m.err
}

type mockCommentService struct {
	comment  *models.Comment
	comments []models.Comment
	err      error
}

func (m *mockCommentService) ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error) {
	return m.comments, m.err
}

func (m *mockCommentService) CreateComment(ctx context.Context, author *models.User, taskID uuid.UUID, content string) (*models.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.comment, nil
}

func (m *mockCommentService) DeleteComment(ctx context.Context, taskID, commentID uuid.UUID) error {
	return m.err
}

// mockProjector shapes entities without touching a store and records the
// operation kind it was asked for.
type mockProjector struct {
	err         error
	lastTaskOp  projection.Op
	lastBoardOp projection.Op
}

func (m *mockProjector) BoardSummary(ctx context.Context, board *models.Board) (*projection.BoardSummaryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &projection.BoardSummaryView{ID: board.ID, Title: board.Title, OwnerID: board.OwnerID}, nil
}

func (m *mockProjector) BoardDetail(ctx context.Context, board *models.Board, op projection.Op) (*projection.BoardDetailView, error) {
	m.lastBoardOp = op
	if m.err != nil {
		return nil, m.err
	}
	return &projection.BoardDetailView{ID: board.ID, Title: board.Title, Members: []projection.UserView{}}, nil
}

func (m *mockProjector) Task(ctx context.Context, task *models.Task, op projection.Op) (*projection.TaskView, error) {
	m.lastTaskOp = op
	if m.err != nil {
		return nil, m.err
	}
	return &projection.TaskView{
		ID:       task.ID,
		Title:    task.Title,
		Status:   task.Status,
		Priority: task.Priority,
	}, nil
}

func (m *mockProjector) Tasks(ctx context.Context, tasks []models.Task, op projection.Op) ([]projection.TaskView, error) {
	views := make([]projection.TaskView, 0, len(tasks))
	for i := range tasks {
		view, err := m.Task(ctx, &tasks[i], op)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (m *mockProjector) Comment(ctx context.Context, comment *models.Comment) (*projection.CommentView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &projection.CommentView{ID: comment.ID, Content: comment.Content}, nil
}

func (m *mockProjector) Comments(ctx context.Context, comments []models.Comment) ([]projection.CommentView, error) {
	views := make([]projection.CommentView, 0, len(comments))
	for i := range comments {
		view, err := m.Comment(ctx, &comments[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

type mockRegisterService struct {
	user *models.User
	err  error
}

func (m *mockRegisterService) RegisterUser(ctx context.Context, req services.RegistrationRequest) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

type mockAuthService struct {
	user     *models.User
	loginErr error
	tokenErr error
}

func (m *mockAuthService) LoginUser(ctx context.Context, email, password string) (*models.User, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.user, nil
}

func (m *mockAuthService) GenerateToken(user *models.User) (string, error) {
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	return "test-token", nil
}

type mockUserService struct {
	user      *models.User
	err       error
	deletedID uuid.UUID
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.err
}
