package store

import (
	"strings"
	"testing"

	"github.com/vistamin/starchive/models"
	"github.com/vistamin/starchive/types"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Morning Draw", "Morning_Draw"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"plain", "plain"},
		{"", ""},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tc := range cases {
		if got := sanitizeName(tc.in); got != tc.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveShard(t *testing.T) {
	rec := models.TaskRecord{ID: "abc-123", Name: "Final Round", Timestamp: "2024-03-05T18:00:00+08:00"}
	sh, err := resolveShard(rec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sh.Year != 2024 || sh.Month != 3 {
		t.Fatalf("shard year/month: got %d/%d", sh.Year, sh.Month)
	}
	if sh.MonthDir() != "03" {
		t.Fatalf("month dir not zero-padded: %s", sh.MonthDir())
	}
	if sh.FileName != "Final_Round_abc-123.json" {
		t.Fatalf("file name: %s", sh.FileName)
	}
	if sh.RelativePath() != "2024/03/Final_Round_abc-123.json" {
		t.Fatalf("relative path: %s", sh.RelativePath())
	}
}

func TestResolveShardPlaceholderName(t *testing.T) {
	rec := models.TaskRecord{ID: "x1", Timestamp: "2024-12-31T23:59:59Z"}
	sh, err := resolveShard(rec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sh.FileName != "Untitled_Task_x1.json" {
		t.Fatalf("expected placeholder-based name, got %s", sh.FileName)
	}
}

func TestResolveShardMalformedTimestamp(t *testing.T) {
	rec := models.TaskRecord{ID: "x1", Name: "n", Timestamp: "2024-03-05"}
	if _, err := resolveShard(rec); !types.IsCode(err, types.ErrMalformedTimestamp) {
		t.Fatalf("expected MALFORMED_TIMESTAMP, got %v", err)
	}
}

func TestShardNameUniqueAcrossIDs(t *testing.T) {
	a := models.TaskRecord{ID: "id-1", Name: "Same Name", Timestamp: "2024-03-05T00:00:00Z"}
	b := models.TaskRecord{ID: "id-2", Name: "Same Name", Timestamp: "2024-03-05T00:00:00Z"}
	sa, _ := resolveShard(a)
	sb, _ := resolveShard(b)
	if sa.FileName == sb.FileName {
		t.Fatalf("colliding names must still produce distinct files: %s", sa.FileName)
	}
}
