package geom

import "testing"

func TestFormatBearing(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "000°"},
		{45, "045°"},
		{5.4, "005°"},
		{5.5, "006°"},
		{89.5, "090°"},
		{270.49, "270°"},
		{359.4, "359°"},
	}
	for _, tt := range tests {
		if got := FormatBearing(tt.in); got != tt.want {
			t.Errorf("FormatBearing(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0 NM"},
		{5, "5.0 NM"},
		{10.54, "10.5 NM"},
		{10.56, "10.6 NM"},
		{123.456, "123.5 NM"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.in); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatVariance(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5° E"},
		{-3.5, "3.5° W"},
		{0.5, "0.5° E"},
	}
	for _, tt := range tests {
		if got := FormatVariance(tt.in); got != tt.want {
			t.Errorf("FormatVariance(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
