package types

import (
	"errors"
	"testing"
)

func TestLayerOrder(t *testing.T) {
	if len(Layers) != 12 {
		t.Fatalf("expected 12 layers, got %d", len(Layers))
	}
	if Rank(LayerGoal) != 0 {
		t.Errorf("goal rank = %d, want 0", Rank(LayerGoal))
	}
	if Rank(LayerCommand) != 11 {
		t.Errorf("command rank = %d, want 11", Rank(LayerCommand))
	}
	if Rank("epic") != -1 {
		t.Errorf("unknown layer rank = %d, want -1", Rank("epic"))
	}

	// Ranks must be strictly increasing in declaration order.
	for i := 1; i < len(Layers); i++ {
		if Rank(Layers[i]) <= Rank(Layers[i-1]) {
			t.Errorf("rank of %s not above %s", Layers[i], Layers[i-1])
		}
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		layer string
		want  string
	}{
		{LayerGoal, "goals"},
		{LayerConstraints, "constraints"},
		{LayerAcceptanceCriteria, "acceptance_criteria"},
		{LayerInterfaceContract, "interface_contracts"},
		{LayerSubTask, "subtasks"},
		{LayerCommand, "commands"},
	}
	for _, tt := range tests {
		got, err := TableName(tt.layer)
		if err != nil {
			t.Errorf("TableName(%q): %v", tt.layer, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TableName(%q) = %q, want %q", tt.layer, got, tt.want)
		}
	}

	if _, err := TableName("epic"); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestNewEntity(t *testing.T) {
	for _, layer := range Layers {
		e, err := NewEntity(layer)
		if err != nil {
			t.Errorf("NewEntity(%q): %v", layer, err)
			continue
		}
		if e.Layer() != layer {
			t.Errorf("NewEntity(%q).Layer() = %q", layer, e.Layer())
		}
		if e.Meta() == nil {
			t.Errorf("NewEntity(%q).Meta() is nil", layer)
		}
	}

	if _, err := NewEntity("milestone"); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestCommandExtras(t *testing.T) {
	c := &Command{
		Cmd:        "go",
		CmdParams:  "test ./...",
		RuntimeEnv: map[string]string{"CGO_ENABLED": "0"},
		Artifacts:  []string{"coverage.out"},
	}
	c.Title = "run tests"
	if c.Layer() != LayerCommand {
		t.Fatalf("Layer() = %q", c.Layer())
	}
	if c.Meta().Title != "run tests" {
		t.Fatalf("Meta().Title = %q", c.Meta().Title)
	}
}
