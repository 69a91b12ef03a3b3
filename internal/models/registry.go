// Package models selects which OpenRouter models run each specialist and
// the coordinator.
package models

import (
	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/specialist"
)

// Registry holds a filtered list of free models.
type Registry struct {
	free []openrouter.Model
}

// NewRegistry creates a registry, keeping only free models (Prompt == "0"
// and Completion == "0"). Models with nil Pricing are excluded.
func NewRegistry(models []openrouter.Model) *Registry {
	var free []openrouter.Model
	for _, m := range models {
		if m.Pricing == nil {
			continue
		}
		if m.Pricing.Prompt == "0" && m.Pricing.Completion == "0" {
			free = append(free, m)
		}
	}
	return &Registry{free: free}
}

// FreeModels returns all free models in the registry.
func (r *Registry) FreeModels() []openrouter.Model {
	return r.free
}

// Assignment maps each specialist role to a model, plus the coordinator's
// model.
type Assignment struct {
	Specialists map[specialist.Role]string
	Coordinator string
}

// Assign distributes free models across the four specialists and the
// coordinator, cycling when fewer than five are available. The coordinator
// gets the first model; independence across specialists matters more than
// which particular model each one gets.
func (r *Registry) Assign() Assignment {
	a := Assignment{Specialists: make(map[specialist.Role]string, len(specialist.Roles))}
	if len(r.free) == 0 {
		return a
	}
	a.Coordinator = r.free[0].ID
	for i, role := range specialist.Roles {
		a.Specialists[role] = r.free[(i+1)%len(r.free)].ID
	}
	return a
}

// DefaultFreeModels returns a hardcoded fallback list of known free models,
// used when the live model listing is unavailable.
func DefaultFreeModels() []openrouter.Model {
	return []openrouter.Model{
		{ID: "qwen/qwen3-235b-a22b:free", Name: "Qwen3 235B A22B", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "google/gemma-3n-e2b-it:free", Name: "Gemma 3n 2B", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "nvidia/nemotron-nano-9b-v2:free", Name: "Nemotron Nano 9B V2", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "qwen/qwen3-coder:free", Name: "Qwen3 Coder 480B A35B", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "openai/gpt-oss-120b:free", Name: "GPT OSS 120B", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
	}
}
