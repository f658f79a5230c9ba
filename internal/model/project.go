package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus enum constants
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// TaskStatus enum constants
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Project is a construction project with a budget and a phase/task breakdown.
type Project struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Client      string          `gorm:"type:varchar(255)" json:"client"`
	Location    string          `gorm:"type:varchar(255)" json:"location"`
	Budget      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"budget"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'XOF'" json:"currency"`
	Status      ProjectStatus   `gorm:"type:varchar(20);not null;default:'planning';index" json:"status"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Phases      []Phase         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"phases,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Phase groups tasks within a project.
type Phase struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Position  int        `gorm:"default:0" json:"position"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Tasks     []Task     `gorm:"foreignKey:PhaseID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Task is a unit of work; Progress (0-100) rolls up into phase and project progress.
type Task struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	PhaseID   *uuid.UUID `gorm:"type:uuid;index" json:"phase_id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Status    TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Progress  int        `gorm:"default:0" json:"progress"` // 0-100
	AssignedTo string    `gorm:"type:varchar(255)" json:"assigned_to"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
