package models

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		label string
		want  Status
		ok    bool
	}{
		{"waiting", StatusWaiting, true},
		{"called", StatusCalled, true},
		{"completed", StatusCompleted, true},
		{"serving", "", false},
		{"WAITING", "", false},
		{"", "", false},
		{"done", "", false},
	}

	for _, tt := range cases {
		got, err := ParseStatus(tt.label)
		if tt.ok {
			if err != nil {
				t.Fatalf("ParseStatus(%q) error: %v", tt.label, err)
			}
			if got != tt.want {
				t.Fatalf("ParseStatus(%q)=%q, want %q", tt.label, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrUnknownStatus) {
			t.Fatalf("ParseStatus(%q) expected ErrUnknownStatus, got %v", tt.label, err)
		}
	}
}
