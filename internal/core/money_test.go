package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr error
	}{
		{name: "plain integer", in: "42", want: 4200},
		{name: "dot separator", in: "12.34", want: 1234},
		{name: "comma separator", in: "12,34", want: 1234},
		{name: "one decimal digit", in: "5.5", want: 550},
		{name: "leading dot", in: ".99", want: 99},
		{name: "third decimal rounds up", in: "1.005", want: 101},
		{name: "third decimal rounds down", in: "1.004", want: 100},
		{name: "surrounding spaces", in: "  7.25  ", want: 725},
		{name: "empty", in: "", wantErr: ErrInvalidAmount},
		{name: "zero", in: "0", wantErr: ErrInvalidAmount},
		{name: "zero with decimals", in: "0.00", wantErr: ErrInvalidAmount},
		{name: "negative", in: "-3.50", wantErr: ErrInvalidAmount},
		{name: "explicit plus", in: "+3.50", wantErr: ErrInvalidAmount},
		{name: "letters", in: "12abc", wantErr: ErrInvalidAmount},
		{name: "two separators", in: "1.2.3", wantErr: ErrInvalidAmount},
		{name: "overflow", in: "99999999999999999999", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDecimalToCents(%q) err = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{4250, "42.50"},
		{99, "0.99"},
		{100, "1.00"},
		{5, "0.05"},
		{-1234, "-12.34"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
