package cmd

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/vistamin/starchive/types"
)

func TestPrintError(t *testing.T) {
	originalStderr := os.Stderr

	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{
			name:         "normal mode without error",
			userMsg:      "User friendly message",
			technicalErr: nil,
			verbose:      false,
			expectedOut:  "User friendly message",
		},
		{
			name:         "verbose mode with error",
			userMsg:      "User friendly message",
			technicalErr: &testError{msg: "technical details"},
			verbose:      true,
			expectedOut:  "Error: technical details",
		},
		{
			name:         "normal mode with technical error",
			userMsg:      "User friendly message",
			technicalErr: &testError{msg: "technical details"},
			verbose:      false,
			expectedOut:  "User friendly message",
		},
		{
			name:         "normal mode surfaces history error code",
			userMsg:      "Failed to archive",
			technicalErr: types.NewHistoryError(types.ErrMalformedTimestamp, "bad timestamp", nil),
			verbose:      false,
			expectedOut:  "Failed to archive (MALFORMED_TIMESTAMP)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			r, w, _ := os.Pipe()
			os.Stderr = w

			PrintError(tt.userMsg, tt.technicalErr)

			_ = w.Close()
			os.Stderr = originalStderr

			out, _ := io.ReadAll(r)
			if !strings.Contains(string(out), tt.expectedOut) {
				t.Errorf("PrintError() output = %q, want it to contain %q", out, tt.expectedOut)
			}
		})
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestReadRecordInputFromFile(t *testing.T) {
	path := t.TempDir() + "/record.json"
	if err := os.WriteFile(path, []byte(`{"id":"abc"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, source, err := readRecordInput([]string{path})
	if err != nil {
		t.Fatalf("readRecordInput() error = %v", err)
	}
	if source != path {
		t.Errorf("source = %q, want %q", source, path)
	}
	if string(data) != `{"id":"abc"}` {
		t.Errorf("data = %q", data)
	}
}
