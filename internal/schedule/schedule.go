// Package schedule loads the schedules whose tasks are placed on the board.
package schedule

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for schedule files that fail to parse or validate.
var ErrInvalid = errors.New("invalid schedule file")

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Schedule groups tasks under a name.
type Schedule struct {
	Name      string `yaml:"scheduleName" validate:"required"`
	CreatedBy string `yaml:"createdBy" validate:"required"`
	Color     string `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Type      string `yaml:"type,omitempty"`
	Tasks     []Task `yaml:"tasks" validate:"dive"`
}

// Task is one unit of work in a schedule.
type Task struct {
	ID          int        `yaml:"id,omitempty"`
	Name        string     `yaml:"name" validate:"required"`
	Color       string     `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Difficulty  string     `yaml:"difficulty,omitempty"`
	EndBy       time.Time  `yaml:"endBy,omitempty"`
	Priority    Priority   `yaml:"priority" validate:"oneof=low medium high"`
	Status      Status     `yaml:"status" validate:"oneof=pending completed overdue"`
	Tags        []string   `yaml:"tags,omitempty"`
	Description string     `yaml:"description,omitempty"`
	CreatedAt   time.Time  `yaml:"createdAt,omitempty"`
	ActivityLog []Activity `yaml:"activityLog,omitempty"`
	Subtasks    []Subtask  `yaml:"subtasks,omitempty" validate:"dive"`
}

// Activity is one entry of a task's log.
type Activity struct {
	Type string    `yaml:"type"`
	Time time.Time `yaml:"time"`
}

// Subtask is a step of a task. Completion is a percentage.
type Subtask struct {
	Name        string    `yaml:"name" validate:"required"`
	Description string    `yaml:"des,omitempty"`
	Color       string    `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Date        time.Time `yaml:"date,omitempty"`
	Completion  float64   `yaml:"completion,omitempty" validate:"min=0,max=100"`
}

// Effective returns the status as of now: a pending task past its end date
// is overdue.
func (t Task) Effective(now time.Time) Status {
	if t.Status == StatusPending && !t.EndBy.IsZero() && t.EndBy.Before(now) {
		return StatusOverdue
	}
	return t.Status
}

type file struct {
	Schedules []Schedule `yaml:"schedules" validate:"dive"`
}

var validate = validator.New()

// Parse reads schedules from YAML or JSON, fills defaults and validates
// them. now stamps tasks without a creation time.
func Parse(data []byte, now time.Time) ([]Schedule, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i := range f.Schedules {
		applyDefaults(&f.Schedules[i], now)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, formatValidationError(err))
	}
	return f.Schedules, nil
}

// Load reads a schedule file.
func Load(path string) ([]Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedules: %w", err)
	}
	schedules, err := Parse(data, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schedules, nil
}

func applyDefaults(s *Schedule, now time.Time) {
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if t.Priority == "" {
			t.Priority = PriorityLow
		}
		if t.Status == "" {
			t.Status = StatusPending
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
	}
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "hexcolor":
			msgs = append(msgs, fmt.Sprintf("%s must be a hex color", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Entry is a task offered for placement on the board.
type Entry struct {
	Schedule string
	Task     Task
	// Color is the task color, or the schedule color when the task has none.
	Color string
}

// Catalog flattens schedules into entries, in file order.
func Catalog(schedules []Schedule) []Entry {
	var out []Entry
	for _, s := range schedules {
		for _, t := range s.Tasks {
			color := t.Color
			if color == "" {
				color = s.Color
			}
			out = append(out, Entry{Schedule: s.Name, Task: t, Color: color})
		}
	}
	return out
}

// Label is the one-line picker text for the entry.
func (e Entry) Label(now time.Time) string {
	return fmt.Sprintf("%s · %s [%s, %s]", e.Task.Name, e.Schedule, e.Task.Priority, e.Task.Effective(now))
}
