package types

import "fmt"

// Document is the portable export format for the full entity and
// association graph. JSON and YAML renderings are isomorphic: one top-level
// key per layer, a labels list, and an associations list carrying enough
// endpoint information to rebuild every edge without relying on order.
type Document struct {
	SnapshotID string `json:"snapshot_id" yaml:"snapshot_id"`
	ExportedAt string `json:"exported_at" yaml:"exported_at"`

	Goals              []Record `json:"goals" yaml:"goals"`
	Concepts           []Record `json:"concepts" yaml:"concepts"`
	Contexts           []Record `json:"contexts" yaml:"contexts"`
	Constraints        []Record `json:"constraints" yaml:"constraints"`
	Requirements       []Record `json:"requirements" yaml:"requirements"`
	AcceptanceCriteria []Record `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	InterfaceContracts []Record `json:"interface_contracts" yaml:"interface_contracts"`
	Phases             []Record `json:"phases" yaml:"phases"`
	Steps              []Record `json:"steps" yaml:"steps"`
	Tasks              []Record `json:"tasks" yaml:"tasks"`
	SubTasks           []Record `json:"subtasks" yaml:"subtasks"`
	Commands           []Record `json:"commands" yaml:"commands"`

	Labels       []LabelRecord `json:"labels" yaml:"labels"`
	Associations []Edge        `json:"associations" yaml:"associations"`
}

// Record is one entity in the export document. Timestamps are RFC 3339
// strings. The cmd fields are populated only for command-layer records.
type Record struct {
	ID             int64          `json:"id" yaml:"id"`
	Title          string         `json:"title" yaml:"title"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Status         string         `json:"status" yaml:"status"`
	Progress       int            `json:"progress" yaml:"progress"`
	Owner          string         `json:"owner,omitempty" yaml:"owner,omitempty"`
	Severity       string         `json:"severity,omitempty" yaml:"severity,omitempty"`
	WorkType       string         `json:"work_type,omitempty" yaml:"work_type,omitempty"`
	Assignee       string         `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	StartedDate    string         `json:"started_date,omitempty" yaml:"started_date,omitempty"`
	CompletionDate string         `json:"completion_date,omitempty" yaml:"completion_date,omitempty"`
	ExtraData      map[string]any `json:"extra_data,omitempty" yaml:"extra_data,omitempty"`
	CreatedAt      string         `json:"created_at" yaml:"created_at"`
	UpdatedAt      string         `json:"updated_at" yaml:"updated_at"`

	Cmd        string            `json:"cmd,omitempty" yaml:"cmd,omitempty"`
	CmdParams  string            `json:"cmd_params,omitempty" yaml:"cmd_params,omitempty"`
	RuntimeEnv map[string]string `json:"runtime_env,omitempty" yaml:"runtime_env,omitempty"`
	Output     string            `json:"output,omitempty" yaml:"output,omitempty"`
	Artifacts  []string          `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// LabelRecord is one label in the export document.
type LabelRecord struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
	UpdatedAt string `json:"updated_at" yaml:"updated_at"`
}

// Edge is one association in the export document. For label edges the
// target is the label: ToLayer is "label" and ToID is the label's id
// within the document's labels list.
type Edge struct {
	FromLayer string `json:"from_layer" yaml:"from_layer"`
	FromID    int64  `json:"from_id" yaml:"from_id"`
	ToLayer   string `json:"to_layer" yaml:"to_layer"`
	ToID      int64  `json:"to_id" yaml:"to_id"`
	Kind      string `json:"kind" yaml:"kind"`
}

// RecordsFor returns the record list for a layer.
// Returns ErrUnknownLayer for an unrecognized layer name.
func (d *Document) RecordsFor(layer string) ([]Record, error) {
	switch layer {
	case LayerGoal:
		return d.Goals, nil
	case LayerConcept:
		return d.Concepts, nil
	case LayerContext:
		return d.Contexts, nil
	case LayerConstraints:
		return d.Constraints, nil
	case LayerRequirements:
		return d.Requirements, nil
	case LayerAcceptanceCriteria:
		return d.AcceptanceCriteria, nil
	case LayerInterfaceContract:
		return d.InterfaceContracts, nil
	case LayerPhase:
		return d.Phases, nil
	case LayerStep:
		return d.Steps, nil
	case LayerTask:
		return d.Tasks, nil
	case LayerSubTask:
		return d.SubTasks, nil
	case LayerCommand:
		return d.Commands, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
}

// AppendRecord appends a record to the layer's list.
// Returns ErrUnknownLayer for an unrecognized layer name.
func (d *Document) AppendRecord(layer string, r Record) error {
	switch layer {
	case LayerGoal:
		d.Goals = append(d.Goals, r)
	case LayerConcept:
		d.Concepts = append(d.Concepts, r)
	case LayerContext:
		d.Contexts = append(d.Contexts, r)
	case LayerConstraints:
		d.Constraints = append(d.Constraints, r)
	case LayerRequirements:
		d.Requirements = append(d.Requirements, r)
	case LayerAcceptanceCriteria:
		d.AcceptanceCriteria = append(d.AcceptanceCriteria, r)
	case LayerInterfaceContract:
		d.InterfaceContracts = append(d.InterfaceContracts, r)
	case LayerPhase:
		d.Phases = append(d.Phases, r)
	case LayerStep:
		d.Steps = append(d.Steps, r)
	case LayerTask:
		d.Tasks = append(d.Tasks, r)
	case LayerSubTask:
		d.SubTasks = append(d.SubTasks, r)
	case LayerCommand:
		d.Commands = append(d.Commands, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
	return nil
}

// ImportResult reports what a bulk import did: entities and labels
// created, entities and labels skipped because they already existed,
// and per-record errors collected under the partial-failure policy.
type ImportResult struct {
	Imported int      `json:"imported" yaml:"imported"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}
