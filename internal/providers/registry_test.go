package providers

import "testing"

func TestAllProvidersHaveDistinctIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range All() {
		if p.ID() == "" {
			t.Errorf("provider %T has empty ID", p)
		}
		if seen[p.ID()] {
			t.Errorf("duplicate provider ID %q", p.ID())
		}
		seen[p.ID()] = true

		if p.Describe().Name == "" {
			t.Errorf("provider %q has no display name", p.ID())
		}
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID("glm")
	if !ok || p.ID() != "glm" {
		t.Errorf("ByID(glm) = %v, %v", p, ok)
	}
	if _, ok := ByID("nope"); ok {
		t.Error("ByID(nope) found a provider")
	}
}

func TestIDs(t *testing.T) {
	ids := IDs()
	if len(ids) != len(All()) {
		t.Errorf("IDs() len = %d, want %d", len(ids), len(All()))
	}
}
