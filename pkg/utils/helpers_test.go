package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2020-06-15 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}

	zero, err := ParseDate("")
	if err != nil || !zero.IsZero() {
		t.Errorf("empty input should yield the zero time, got %v, %v", zero, err)
	}

	if _, err := ParseDate("15/06/2020"); err == nil {
		t.Error("expected an error for non-ISO input")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{"42", 42},
		{" 3.14 ", 3.14},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.input); got != tt.want {
			t.Errorf("ParseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		input interface{}
		want  float64
	}{
		{42, 42},
		{int64(7), 7},
		{3.5, 3.5},
		{float32(2), 2},
		{"1.25", 1.25},
		{"abc", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := Numeric(tt.input); got != tt.want {
			t.Errorf("Numeric(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
