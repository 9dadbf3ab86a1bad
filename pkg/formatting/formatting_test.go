package formatting_test

import (
	"errors"
	"testing"

	"github.com/jrycodes/typotrace/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{"bare bytes", "1024", 1024, nil},
		{"bytes unit", "512B", 512, nil},
		{"kilobytes", "1KB", 1024, nil},
		{"megabytes", "50MB", 50 * 1024 * 1024, nil},
		{"iec megabytes", "10MiB", 10 * 1024 * 1024, nil},
		{"lowercase unit", "10mb", 10 * 1024 * 1024, nil},
		{"with space", "100 MB", 100 * 1024 * 1024, nil},
		{"fractional", "1.5KB", 1536, nil},
		{"trailing whitespace", "50MB  ", 50 * 1024 * 1024, nil},
		{"zero", "0", 0, nil},
		{"empty string", "", 0, formatting.ErrEmptySize},
		{"unknown unit", "50XX", 0, formatting.ErrUnknownUnit},
		{"no number", "MB", 0, formatting.ErrInvalidSize},
		{"negative", "-5MB", 0, formatting.ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseBytes(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 500, 0, "500 B"},
		{"one KB", 1024, 0, "1 KB"},
		{"one MB", 1024 * 1024, 0, "1 MB"},
		{"fractional MB", 1536 * 1024, 2, "1.50 MB"},
		{"negative precision", 1536 * 1024, -1, "2 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %s, want %s", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0%"},
		{40, "40%"},
		{85.25, "85.2%"},
		{140, "100%"},
		{-3, "0%"},
	}

	for _, tt := range tests {
		if got := formatting.FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := formatting.ProgressBar(50, 10); got != "[#####.....]" {
		t.Errorf("ProgressBar(50, 10) = %s", got)
	}
	if got := formatting.ProgressBar(120, 4); got != "[####]" {
		t.Errorf("ProgressBar(120, 4) = %s", got)
	}
}
