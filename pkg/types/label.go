package types

import "time"

// Label is a free-form tag attachable to any entity in any layer. Names
// are globally unique; creation is get-or-create, so asking for an
// existing name returns the existing label.
type Label struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Association edge kinds used by the export document.
const (
	EdgeKindLabel     = "label"
	EdgeKindHierarchy = "hierarchy"
)
