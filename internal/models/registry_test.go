package models

import (
	"testing"

	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/specialist"
)

func paid(id string) openrouter.Model {
	return openrouter.Model{ID: id, Pricing: &openrouter.Pricing{Prompt: "0.001", Completion: "0.002"}}
}

func free(id string) openrouter.Model {
	return openrouter.Model{ID: id, Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}}
}

func TestNewRegistryFiltersFreeModels(t *testing.T) {
	r := NewRegistry([]openrouter.Model{
		free("a"), paid("b"), free("c"),
		{ID: "no-pricing"},
	})
	got := r.FreeModels()
	if len(got) != 2 {
		t.Fatalf("free models = %d, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("unexpected free models: %v", got)
	}
}

func TestAssignDistributesModels(t *testing.T) {
	r := NewRegistry([]openrouter.Model{free("a"), free("b"), free("c"), free("d"), free("e")})
	a := r.Assign()
	if a.Coordinator != "a" {
		t.Errorf("coordinator = %q, want a", a.Coordinator)
	}
	seen := map[string]bool{}
	for _, role := range specialist.Roles {
		model := a.Specialists[role]
		if model == "" {
			t.Errorf("role %s unassigned", role)
		}
		seen[model] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct specialist models, got %v", seen)
	}
}

func TestAssignCyclesWhenShort(t *testing.T) {
	r := NewRegistry([]openrouter.Model{free("only")})
	a := r.Assign()
	if a.Coordinator != "only" {
		t.Errorf("coordinator = %q", a.Coordinator)
	}
	for _, role := range specialist.Roles {
		if a.Specialists[role] != "only" {
			t.Errorf("role %s = %q, want only", role, a.Specialists[role])
		}
	}
}

func TestAssignEmptyRegistry(t *testing.T) {
	a := NewRegistry(nil).Assign()
	if a.Coordinator != "" {
		t.Errorf("coordinator = %q, want empty", a.Coordinator)
	}
	if len(a.Specialists) != 0 {
		t.Errorf("specialists = %v, want none", a.Specialists)
	}
}

func TestDefaultFreeModelsAllFree(t *testing.T) {
	r := NewRegistry(DefaultFreeModels())
	if len(r.FreeModels()) != len(DefaultFreeModels()) {
		t.Error("default models must all be free")
	}
}
