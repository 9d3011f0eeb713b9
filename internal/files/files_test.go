package files

import (
	"testing"

	"github.com/spf13/afero"
)

func newMemService() *Service {
	return NewService(afero.NewMemMapFs(), "/data/coredata")
}

func TestSaveLoadDelete(t *testing.T) {
	s := newMemService()

	doc := []byte(`{"groups":["A","B"]}`)
	if err := s.SaveJSON("groups/config.json", doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, found, err := s.Load("groups/config.json")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if string(data) != string(doc) {
		t.Fatalf("content mismatch: %s", data)
	}

	size, err := s.Size("groups/config.json")
	if err != nil || size != int64(len(doc)) {
		t.Fatalf("size: got %d err=%v", size, err)
	}

	if err := s.Delete("groups/config.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Load("groups/config.json"); found {
		t.Fatal("expected file gone")
	}
	// Deleting again is a no-op.
	if err := s.Delete("groups/config.json"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestMissingFileBehaviors(t *testing.T) {
	s := newMemService()

	if _, found, err := s.Load("nope.json"); err != nil || found {
		t.Fatalf("load missing: found=%v err=%v", found, err)
	}
	if size, err := s.Size("nope.json"); err != nil || size != 0 {
		t.Fatalf("size missing: got %d err=%v", size, err)
	}
	if exists, err := s.Exists("nope.json"); err != nil || exists {
		t.Fatalf("exists missing: %v %v", exists, err)
	}
	names, err := s.ListDir("nodir")
	if err != nil || len(names) != 0 {
		t.Fatalf("list missing dir: %v %v", names, err)
	}
}

func TestRejectsInvalidJSON(t *testing.T) {
	s := newMemService()
	if err := s.SaveJSON("x.json", []byte("{oops")); err == nil {
		t.Fatal("expected invalid JSON rejection")
	}
}

func TestRejectsEscapingPaths(t *testing.T) {
	s := newMemService()
	for _, rel := range []string{"../outside.json", "a/../../outside.json", "/etc/passwd", "", "  ", "a\x00b"} {
		if err := s.SaveJSON(rel, []byte(`{}`)); err == nil {
			t.Errorf("expected rejection for %q", rel)
		}
	}
}

func TestListDirSorted(t *testing.T) {
	s := newMemService()
	for _, name := range []string{"b.json", "a.json", "c.json"} {
		if err := s.SaveJSON("dir/"+name, []byte(`{}`)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	names, err := s.ListDir("dir")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a.json", "b.json", "c.json"}
	if len(names) != 3 {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
