package theme

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range Available() {
		th, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q) returned error: %v", name, err)
			continue
		}
		if th.Name != name {
			t.Errorf("Load(%q).Name = %q", name, th.Name)
		}
		if th.Bg == "" || th.Fg == "" || th.Complete == "" || th.Unassigned == "" {
			t.Errorf("theme %q has empty required colors: %+v", name, th)
		}
	}
}

func TestLoadFallback(t *testing.T) {
	th, err := Load("neon")
	if err == nil {
		t.Error("expected an error for an unknown theme")
	}
	if th == nil || th.Name != "slate" {
		t.Errorf("unknown theme should fall back to slate, got %+v", th)
	}

	th, err = Load("")
	if err != nil {
		t.Errorf("empty name should load a detected default without error, got %v", err)
	}
	if !IsAvailable(th.Name) {
		t.Errorf("empty name loaded %q, which is not an available theme", th.Name)
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("SLATE") {
		t.Error("IsAvailable should be case insensitive")
	}
	if IsAvailable("neon") {
		t.Error("neon should not be available")
	}
}
