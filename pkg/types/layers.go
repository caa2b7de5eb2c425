package types

import "fmt"

// Layer names, ordered from the top of the work-breakdown hierarchy to
// the bottom. The position in this order is the layer's rank; hierarchy
// edges always run from a lower-ranked parent to a higher-ranked child.
const (
	LayerGoal               = "goal"
	LayerConcept            = "concept"
	LayerContext            = "context"
	LayerConstraints        = "constraints"
	LayerRequirements       = "requirements"
	LayerAcceptanceCriteria = "acceptance_criteria"
	LayerInterfaceContract  = "interface_contract"
	LayerPhase              = "phase"
	LayerStep               = "step"
	LayerTask               = "task"
	LayerSubTask            = "subtask"
	LayerCommand            = "command"
)

// Layers lists all layer names in rank order.
var Layers = []string{
	LayerGoal,
	LayerConcept,
	LayerContext,
	LayerConstraints,
	LayerRequirements,
	LayerAcceptanceCriteria,
	LayerInterfaceContract,
	LayerPhase,
	LayerStep,
	LayerTask,
	LayerSubTask,
	LayerCommand,
}

// layerTables maps layer names to their table names.
var layerTables = map[string]string{
	LayerGoal:               "goals",
	LayerConcept:            "concepts",
	LayerContext:            "contexts",
	LayerConstraints:        "constraints",
	LayerRequirements:       "requirements",
	LayerAcceptanceCriteria: "acceptance_criteria",
	LayerInterfaceContract:  "interface_contracts",
	LayerPhase:              "phases",
	LayerStep:               "steps",
	LayerTask:               "tasks",
	LayerSubTask:            "subtasks",
	LayerCommand:            "commands",
}

// layerRanks maps layer names to their position in Layers.
var layerRanks = func() map[string]int {
	m := make(map[string]int, len(Layers))
	for i, l := range Layers {
		m[l] = i
	}
	return m
}()

// ValidLayer reports whether name is one of the twelve layer names.
func ValidLayer(name string) bool {
	_, ok := layerRanks[name]
	return ok
}

// TableName returns the table name for a layer.
// Returns ErrUnknownLayer for an unrecognized layer name.
func TableName(layer string) (string, error) {
	t, ok := layerTables[layer]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
	return t, nil
}

// Rank returns the layer's position in the hierarchy, 0 for Goal through
// 11 for Command. Returns -1 for an unknown layer.
func Rank(layer string) int {
	r, ok := layerRanks[layer]
	if !ok {
		return -1
	}
	return r
}

// NewEntity returns a zero-valued entity of the given layer.
func NewEntity(layer string) (Entity, error) {
	switch layer {
	case LayerGoal:
		return &Goal{}, nil
	case LayerConcept:
		return &Concept{}, nil
	case LayerContext:
		return &Context{}, nil
	case LayerConstraints:
		return &Constraints{}, nil
	case LayerRequirements:
		return &Requirements{}, nil
	case LayerAcceptanceCriteria:
		return &AcceptanceCriteria{}, nil
	case LayerInterfaceContract:
		return &InterfaceContract{}, nil
	case LayerPhase:
		return &Phase{}, nil
	case LayerStep:
		return &Step{}, nil
	case LayerTask:
		return &Task{}, nil
	case LayerSubTask:
		return &SubTask{}, nil
	case LayerCommand:
		return &Command{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
}

// Goal is the top of the hierarchy: an outcome the work exists to reach.
type Goal struct{ Base }

// Layer returns the layer name for Goal.
func (*Goal) Layer() string { return LayerGoal }

// Concept captures an idea or approach serving a goal.
type Concept struct{ Base }

// Layer returns the layer name for Concept.
func (*Concept) Layer() string { return LayerConcept }

// Context records background or environment a concept operates in.
type Context struct{ Base }

// Layer returns the layer name for Context.
func (*Context) Layer() string { return LayerContext }

// Constraints captures limits the work must respect.
type Constraints struct{ Base }

// Layer returns the layer name for Constraints.
func (*Constraints) Layer() string { return LayerConstraints }

// Requirements captures what must hold for the work to be acceptable.
type Requirements struct{ Base }

// Layer returns the layer name for Requirements.
func (*Requirements) Layer() string { return LayerRequirements }

// AcceptanceCriteria captures the checks that verify requirements.
type AcceptanceCriteria struct{ Base }

// Layer returns the layer name for AcceptanceCriteria.
func (*AcceptanceCriteria) Layer() string { return LayerAcceptanceCriteria }

// InterfaceContract captures an agreed boundary between components.
type InterfaceContract struct{ Base }

// Layer returns the layer name for InterfaceContract.
func (*InterfaceContract) Layer() string { return LayerInterfaceContract }

// Phase is a coarse unit of execution.
type Phase struct{ Base }

// Layer returns the layer name for Phase.
func (*Phase) Layer() string { return LayerPhase }

// Step is an ordered part of a phase.
type Step struct{ Base }

// Layer returns the layer name for Step.
func (*Step) Layer() string { return LayerStep }

// Task is a concrete unit of work.
type Task struct{ Base }

// Layer returns the layer name for Task.
func (*Task) Layer() string { return LayerTask }

// SubTask is a fragment of a task.
type SubTask struct{ Base }

// Layer returns the layer name for SubTask.
func (*SubTask) Layer() string { return LayerSubTask }

// Command is the bottom of the hierarchy: an executable action with its
// invocation details and produced artifacts.
type Command struct {
	Base

	Cmd        string            `json:"cmd,omitempty"`
	CmdParams  string            `json:"cmd_params,omitempty"`
	RuntimeEnv map[string]string `json:"runtime_env,omitempty"`
	Output     string            `json:"output,omitempty"`
	Artifacts  []string          `json:"artifacts,omitempty"`
}

// Layer returns the layer name for Command.
func (*Command) Layer() string { return LayerCommand }
