package types

import (
	"fmt"
	"time"
)

// Workflow states. Every layer entity moves through the same state set.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
	StatusCancelled  = "cancelled"
)

// validStatuses is the set of recognized status values.
var validStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusBlocked:    true,
	StatusCancelled:  true,
}

// Severity values. Both "med" and "medium" are accepted spellings.
const (
	SeverityLow      = "low"
	SeverityMed      = "med"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// validSeverities is the set of recognized severity values. Empty means
// unset and is always valid.
var validSeverities = map[string]bool{
	SeverityLow:      true,
	SeverityMed:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// Entity is the contract shared by all twelve layer types. Concrete types
// embed Base, so Meta is inherited; Layer is defined per type.
type Entity interface {
	// Layer returns the layer name (one of the Layer constants).
	Layer() string

	// Meta returns the shared base fields of the entity.
	Meta() *Base
}

// Base holds the fields common to every layer entity. The store assigns
// ID and CreatedAt on creation and refreshes UpdatedAt on every mutation;
// neither ID nor CreatedAt is ever modified by Update.
type Base struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Owner       string `json:"owner,omitempty"`
	Severity    string `json:"severity,omitempty"`
	WorkType    string `json:"work_type,omitempty"`
	Assignee    string `json:"assignee,omitempty"`

	// StartedDate and CompletionDate are set by workflow transitions,
	// not by direct field edits.
	StartedDate    *time.Time `json:"started_date,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`

	// ExtraData carries forward-compatible metadata not modeled as a
	// column.
	ExtraData map[string]any `json:"extra_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta returns the base fields. It makes every embedding type satisfy
// the Entity interface's Meta method.
func (b *Base) Meta() *Base { return b }

// Validate checks the field-level contract: non-empty title, progress
// within 0-100, severity and status within their allowed sets. An empty
// status is valid here; the store defaults it to planned on creation.
func (b *Base) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if b.Progress < 0 || b.Progress > 100 {
		return fmt.Errorf("%w: progress %d outside 0-100", ErrValidation, b.Progress)
	}
	if b.Severity != "" && !validSeverities[b.Severity] {
		return fmt.Errorf("%w: unknown severity %q", ErrValidation, b.Severity)
	}
	if b.Status != "" && !validStatuses[b.Status] {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, b.Status)
	}
	return nil
}

// ValidStatus reports whether s is a recognized status value.
func ValidStatus(s string) bool { return validStatuses[s] }

// terminal reports whether the entity is in a terminal state for the
// helper transitions. Re-opening terminal work requires a direct status
// edit through Update.
func (b *Base) terminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// Start moves the entity from planned to in_progress and records
// StartedDate if unset. Returns ErrInvalidTransition from any other state.
func (b *Base) Start() error {
	if b.Status != StatusPlanned {
		return fmt.Errorf("%w: start from %q", ErrInvalidTransition, b.Status)
	}
	b.Status = StatusInProgress
	if b.StartedDate == nil {
		now := time.Now().UTC()
		b.StartedDate = &now
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete moves the entity from in_progress to completed, forces
// progress to 100, and records CompletionDate.
func (b *Base) Complete() error {
	if b.Status != StatusInProgress {
		return fmt.Errorf("%w: complete from %q", ErrInvalidTransition, b.Status)
	}
	b.Status = StatusCompleted
	b.Progress = 100
	now := time.Now().UTC()
	b.CompletionDate = &now
	b.UpdatedAt = now
	return nil
}

// Block moves the entity from in_progress to blocked. No timestamp side
// effects beyond UpdatedAt.
func (b *Base) Block() error {
	if b.Status != StatusInProgress {
		return fmt.Errorf("%w: block from %q", ErrInvalidTransition, b.Status)
	}
	b.Status = StatusBlocked
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Unblock moves the entity from blocked back to in_progress.
func (b *Base) Unblock() error {
	if b.Status != StatusBlocked {
		return fmt.Errorf("%w: unblock from %q", ErrInvalidTransition, b.Status)
	}
	b.Status = StatusInProgress
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel moves the entity to cancelled from any non-terminal state.
// Existing timestamps are kept.
func (b *Base) Cancel() error {
	if b.terminal() {
		return fmt.Errorf("%w: cancel from %q", ErrInvalidTransition, b.Status)
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now().UTC()
	return nil
}
