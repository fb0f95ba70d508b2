// Package projection shapes stored entities into their outbound
// representations. Which fields appear depends on the operation kind, not on
// request internals: handlers translate HTTP method and path into an Op and
// the profiles below decide the field set. All computed counts are read from
// the store at projection time; nothing is cached across requests.
package projection

import (
	"context"
	"errors"
	"fmt"

	"kanban-board/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Op is the operation kind a response is produced for.
type Op int

const (
	// OpList is a collection listing outside a board scope, e.g. the
	// assigned-to-me and reviewing listings.
	OpList Op = iota
	OpCreate
	// OpRetrieve covers detail fetches, including tasks nested in a board
	// detail response.
	OpRetrieve
	OpUpdate
	OpPartialUpdate
)

// ErrDanglingReference reports a relation whose target no longer exists.
// Cascade rules are supposed to keep author/assignee integrity, so this is
// surfaced loudly instead of the field being silently dropped.
var ErrDanglingReference = errors.New("referenced user no longer exists")

const dateLayout = "2006-01-02"

type UserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Fullname string    `json:"fullname"`
}

type BoardSummaryView struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	MemberCount        int64     `json:"member_count"`
	TicketCount        int64     `json:"ticket_count"`
	TasksToDoCount     int64     `json:"tasks_to_do_count"`
	TasksHighPrioCount int64     `json:"tasks_high_prio_count"`
	OwnerID            uuid.UUID `json:"owner_id"`
}

type BoardDetailView struct {
	ID      uuid.UUID   `json:"id"`
	Title   string      `json:"title"`
	OwnerID *uuid.UUID  `json:"owner_id,omitempty"`
	Members []UserView  `json:"members"`
	Tasks   *[]TaskView `json:"tasks,omitempty"`
}

type TaskView struct {
	ID            uuid.UUID       `json:"id"`
	Board         *uuid.UUID      `json:"board,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        models.Status   `json:"status"`
	Priority      models.Priority `json:"priority"`
	Assignee      *UserView       `json:"assignee"`
	Reviewer      *UserView       `json:"reviewer"`
	DueDate       string          `json:"due_date"`
	CommentsCount *int64          `json:"comments_count,omitempty"`
}

type CommentView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt string    `json:"created_at"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

type taskProfile struct {
	includeBoard         bool
	includeCommentsCount bool
}

// The board reference appears only where the client cannot already know it:
// create responses and listings that span boards. Partial updates skip the
// comment count.
var taskProfiles = map[Op]taskProfile{
	OpList:          {includeBoard: true, includeCommentsCount: true},
	OpCreate:        {includeBoard: true, includeCommentsCount: true},
	OpRetrieve:      {includeBoard: false, includeCommentsCount: true},
	OpUpdate:        {includeBoard: false, includeCommentsCount: true},
	OpPartialUpdate: {includeBoard: false, includeCommentsCount: false},
}

type boardDetailProfile struct {
	includeOwner bool
	includeTasks bool
}

// A partial update is not expected to re-confirm ownership or return the
// whole task list.
var boardDetailProfiles = map[Op]boardDetailProfile{
	OpRetrieve:      {includeOwner: true, includeTasks: true},
	OpUpdate:        {includeOwner: true, includeTasks: true},
	OpPartialUpdate: {includeOwner: false, includeTasks: false},
}

// Service projects stored entities into response views.
type Service interface {
	BoardSummary(ctx context.Context, board *models.Board) (*BoardSummaryView, error)
	BoardDetail(ctx context.Context, board *models.Board, op Op) (*BoardDetailView, error)
	Task(ctx context.Context, task *models.Task, op Op) (*TaskView, error)
	Tasks(ctx context.Context, tasks []models.Task, op Op) ([]TaskView, error)
	Comment(ctx context.Context, comment *models.Comment) (*CommentView, error)
	Comments(ctx context.Context, comments []models.Comment) ([]CommentView, error)
}

type Projector struct {
	db *gorm.DB
}

func NewProjector(db *gorm.DB) *Projector {
	return &Projector{db: db}
}

// UserRef is the expanded representation of a user reference.
func UserRef(u *models.User) UserView {
	return UserView{
		ID:       u.ID,
		Email:    u.Email,
		Fullname: u.Fullname(),
	}
}

func (p *Projector) BoardSummary(ctx context.Context, board *models.Board) (*BoardSummaryView, error) {
	view := &BoardSummaryView{
		ID:      board.ID,
		Title:   board.Title,
		OwnerID: board.OwnerID,
	}

	err := p.db.WithContext(ctx).
		Table("board_members").
		Where("board_id = ?", board.ID).
		Count(&view.MemberCount).Error
	if err != nil {
		return nil, err
	}

	tasks := p.db.WithContext(ctx).Model(&models.Task{}).Where("board_id = ?", board.ID)
	if err := tasks.Count(&view.TicketCount).Error; err != nil {
		return nil, err
	}

	err = p.db.WithContext(ctx).Model(&models.Task{}).
		Where("board_id = ? AND status = ?", board.ID, models.StatusToDo).
		Count(&view.TasksToDoCount).Error
	if err != nil {
		return nil, err
	}

	err = p.db.WithContext(ctx).Model(&models.Task{}).
		Where("board_id = ? AND priority = ?", board.ID, models.PriorityHigh).
		Count(&view.TasksHighPrioCount).Error
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (p *Projector) BoardDetail(ctx context.Context, board *models.Board, op Op) (*BoardDetailView, error) {
	profile := boardDetailProfiles[op]

	var members []models.User
	err := p.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.user_id = users.id").
		Where("board_members.board_id = ?", board.ID).
		Order("users.username").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	view := &BoardDetailView{
		ID:      board.ID,
		Title:   board.Title,
		Members: make([]UserView, 0, len(members)),
	}
	for i := range members {
		view.Members = append(view.Members, UserRef(&members[i]))
	}

	if profile.includeOwner {
		ownerID := board.OwnerID
		view.OwnerID = &ownerID
	}

	if profile.includeTasks {
		var tasks []models.Task
		err := p.db.WithContext(ctx).
			Where("board_id = ?", board.ID).
			Order("created_at").
			Find(&tasks).Error
		if err != nil {
			return nil, err
		}
		views, err := p.Tasks(ctx, tasks, OpRetrieve)
		if err != nil {
			return nil, err
		}
		view.Tasks = &views
	}

	return view, nil
}

func (p *Projector) Task(ctx context.Context, task *models.Task, op Op) (*TaskView, error) {
	profile := taskProfiles[op]

	view := &TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate.Format(dateLayout),
	}

	if profile.includeBoard {
		boardID := task.BoardID
		view.Board = &boardID
	}

	var err error
	if view.Assignee, err = p.userRefByID(ctx, task.AssigneeID, "assignee"); err != nil {
		return nil, err
	}
	if view.Reviewer, err = p.userRefByID(ctx, task.ReviewerID, "reviewer"); err != nil {
		return nil, err
	}

	if profile.includeCommentsCount {
		var count int64
		err := p.db.WithContext(ctx).Model(&models.Comment{}).
			Where("task_id = ?", task.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		view.CommentsCount = &count
	}

	return view, nil
}

func (p *Projector) Tasks(ctx context.Context, tasks []models.Task, op Op) ([]TaskView, error) {
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		view, err := p.Task(ctx, &tasks[i], op)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (p *Projector) Comment(ctx context.Context, comment *models.Comment) (*CommentView, error) {
	var author models.User
	err := p.db.WithContext(ctx).First(&author, "id = ?", comment.AuthorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s author: %w", comment.ID, ErrDanglingReference)
		}
		return nil, err
	}

	return &CommentView{
		ID:        comment.ID,
		CreatedAt: comment.CreatedAt.Format(dateLayout),
		Author:    author.Fullname(),
		Content:   comment.Content,
	}, nil
}

func (p *Projector) Comments(ctx context.Context, comments []models.Comment) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		view, err := p.Comment(ctx, &comments[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (p *Projector) userRefByID(ctx context.Context, id *uuid.UUID, relation string) (*UserView, error) {
	if id == nil {
		return nil, nil
	}
	var user models.User
	err := p.db.WithContext(ctx).First(&user, "id = ?", *id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %s: %w", relation, *id, ErrDanglingReference)
		}
		return nil, err
	}
	view := UserRef(&user)
	return &view, nil
}
