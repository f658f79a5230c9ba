package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Client      string `json:"client"`
	Location    string `json:"location"`
	Budget      string `json:"budget"`
	Currency    string `json:"currency"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
}

type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Client      string `json:"client"`
	Location    string `json:"location"`
	Budget      string `json:"budget"`
	Status      string `json:"status"`
	EndDate     string `json:"end_date"` // YYYY-MM-DD
}

type CreatePhaseRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
}

type CreateTaskRequest struct {
	PhaseID    string `json:"phase_id" binding:"omitempty,uuid"`
	Name       string `json:"name" binding:"required"`
	AssignedTo string `json:"assigned_to"`
	DueDate    string `json:"due_date"` // YYYY-MM-DD
}

type UpdateTaskRequest struct {
	Status   string `json:"status"`
	Progress *int   `json:"progress" binding:"omitempty,min=0,max=100"`
}

// ProjectProgress is the roll-up of task completion for one project.
type ProjectProgress struct {
	ProjectID      uuid.UUID `json:"project_id"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	Progress       int       `json:"progress"` // 0-100, averaged over tasks
}

// --- Interface ---

type ProjectService interface {
	CreateProject(ctx context.Context, userID string, req CreateProjectRequest) (*model.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListProjects(ctx context.Context, status string, page, limit int) ([]model.Project, int64, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*model.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreatePhase(ctx context.Context, projectID uuid.UUID, req CreatePhaseRequest) (*model.Phase, error)
	CreateTask(ctx context.Context, projectID uuid.UUID, req CreateTaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID uuid.UUID, req UpdateTaskRequest) (*model.Task, error)
	GetProgress(ctx context.Context, projectID uuid.UUID) (*ProjectProgress, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	events      EventPublisher
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		events:      events,
	}
}

// --- Implementation ---

func (s *projectService) CreateProject(ctx context.Context, userID string, req CreateProjectRequest) (*model.Project, error) {
	budget := decimal.Zero
	if req.Budget != "" {
		parsed, err := decimal.NewFromString(req.Budget)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid budget %q", req.Budget))
		}
		if parsed.IsNegative() {
			return nil, apperror.New(apperror.KindInvalid, "budget must not be negative")
		}
		budget = parsed
	}

	startDate := time.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid start date %q", req.StartDate))
		}
		startDate = parsed
	}

	currency := req.Currency
	if currency == "" {
		currency = "XOF"
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Client:      req.Client,
		Location:    req.Location,
		Budget:      budget,
		Currency:    currency,
		Status:      model.ProjectPlanning,
		StartDate:   startDate,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.projectRepo.Create(txCtx, project); createErr != nil {
			return fmt.Errorf("failed to create project: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionCreateProject, project.ID.String(), project.Name, map[string]interface{}{
			"budget":   project.Budget.String(),
			"currency": project.Currency,
		})
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "projects", ChangeCreated, project.ID.String())
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return s.projectRepo.FindByIDWithPhases(ctx, id)
}

func (s *projectService) ListProjects(ctx context.Context, status string, page, limit int) ([]model.Project, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.projectRepo.List(ctx, model.ProjectStatus(status), page, limit)
}

func (s *projectService) UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Client != "" {
		project.Client = req.Client
	}
	if req.Location != "" {
		project.Location = req.Location
	}
	if req.Budget != "" {
		budget, parseErr := decimal.NewFromString(req.Budget)
		if parseErr != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid budget %q", req.Budget))
		}
		project.Budget = budget
	}
	if req.Status != "" {
		switch model.ProjectStatus(req.Status) {
		case model.ProjectPlanning, model.ProjectActive, model.ProjectOnHold, model.ProjectCompleted, model.ProjectCancelled:
			project.Status = model.ProjectStatus(req.Status)
		default:
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown project status %q", req.Status))
		}
	}
	if req.EndDate != "" {
		endDate, parseErr := time.Parse("2006-01-02", req.EndDate)
		if parseErr != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid end date %q", req.EndDate))
		}
		project.EndDate = &endDate
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	notify(s.events, "projects", ChangeUpdated, project.ID.String())
	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	notify(s.events, "projects", ChangeDeleted, id.String())
	return nil
}

func (s *projectService) CreatePhase(ctx context.Context, projectID uuid.UUID, req CreatePhaseRequest) (*model.Phase, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	phase := &model.Phase{
		ProjectID: projectID,
		Name:      req.Name,
		Position:  req.Position,
	}
	if err := s.projectRepo.CreatePhase(ctx, phase); err != nil {
		return nil, fmt.Errorf("failed to create phase: %w", err)
	}

	notify(s.events, "projects", ChangeUpdated, projectID.String())
	return phase, nil
}

func (s *projectService) CreateTask(ctx context.Context, projectID uuid.UUID, req CreateTaskRequest) (*model.Task, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:  projectID,
		Name:       req.Name,
		Status:     model.TaskTodo,
		AssignedTo: req.AssignedTo,
	}
	if req.PhaseID != "" {
		phaseID, err := uuid.Parse(req.PhaseID)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalid, "invalid phase id")
		}
		task.PhaseID = &phaseID
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid due date %q", req.DueDate))
		}
		task.DueDate = &due
	}

	if err := s.projectRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	notify(s.events, "projects", ChangeUpdated, projectID.String())
	return task, nil
}

func (s *projectService) UpdateTask(ctx context.Context, projectID, taskID uuid.UUID, req UpdateTaskRequest) (*model.Task, error) {
	tasks, err := s.projectRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks for project %s: %w", projectID, err)
	}

	var task *model.Task
	for i := range tasks {
		if tasks[i].ID == taskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		return nil, apperror.New(apperror.KindNotFound, "task not found")
	}

	if req.Status != "" {
		switch model.TaskStatus(req.Status) {
		case model.TaskTodo, model.TaskInProgress, model.TaskDone:
			task.Status = model.TaskStatus(req.Status)
		default:
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown task status %q", req.Status))
		}
	}
	if req.Progress != nil {
		task.Progress = *req.Progress
	}
	// A task marked done always counts as fully complete.
	if task.Status == model.TaskDone {
		task.Progress = 100
	}

	if err := s.projectRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	notify(s.events, "projects", ChangeUpdated, projectID.String())
	return task, nil
}

// GetProgress averages task progress across the project. A project with no
// tasks reports zero progress.
func (s *projectService) GetProgress(ctx context.Context, projectID uuid.UUID) (*ProjectProgress, error) {
	tasks, err := s.projectRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks for project %s: %w", projectID, err)
	}

	progress := &ProjectProgress{
		ProjectID:  projectID,
		TotalTasks: len(tasks),
	}
	if len(tasks) == 0 {
		return progress, nil
	}

	sum := 0
	for _, task := range tasks {
		sum += task.Progress
		if task.Status == model.TaskDone {
			progress.CompletedTasks++
		}
	}
	progress.Progress = sum / len(tasks)
	return progress, nil
}
