package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	values, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if values["theme"] != "light" {
		t.Fatalf("expected default theme, got %v", values["theme"])
	}
	if values["autoSave"] != true || values["soundEnabled"] != true {
		t.Fatalf("expected default flags, got %v", values)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "config", "settings.json"))

	in := Defaults()
	in["theme"] = "dark"
	in["fontSize"] = float64(18)
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out["theme"] != "dark" {
		t.Fatalf("theme: got %v", out["theme"])
	}
	if out["fontSize"] != float64(18) {
		t.Fatalf("fontSize: got %v", out["fontSize"])
	}
}

func TestSetUpdatesSingleKey(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := s.Set("theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get("theme")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != "dark" {
		t.Fatalf("got %v", v)
	}
	// Defaults are folded in on first write.
	if v, ok, _ := s.Get("autoSave"); !ok || v != true {
		t.Fatalf("expected default autoSave preserved, got %v", v)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatal("expected error for corrupt settings")
	}
}
