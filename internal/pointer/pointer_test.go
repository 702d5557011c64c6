package pointer

import (
	"errors"
	"testing"
)

func TestPositionAdd(t *testing.T) {
	tests := []struct {
		name   string
		pos    Position
		offset Offset
		want   Position
	}{
		{"positive offset", Position{100, 100}, Offset{5, 7}, Position{105, 107}},
		{"negative offset", Position{100, 100}, Offset{-10, -3}, Position{90, 97}},
		{"mixed signs", Position{0, 50}, Offset{60, -75}, Position{60, -25}},
		{"zero offset", Position{12, 34}, Offset{}, Position{12, 34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Add(tt.offset); got != tt.want {
				t.Errorf("%v.Add(%v) = %v, want %v", tt.pos, tt.offset, got, tt.want)
			}
		})
	}
}

func TestPositionEqual(t *testing.T) {
	base := Position{100, 100}
	if !base.Equal(Position{100, 100}) {
		t.Error("expected identical positions to be equal")
	}
	if base.Equal(Position{103, 100}) {
		t.Error("expected x change to be detected")
	}
	if base.Equal(Position{100, 99}) {
		t.Error("expected y change to be detected")
	}
}

func TestStrings(t *testing.T) {
	if got := (Position{3, -4}).String(); got != "(3, -4)" {
		t.Errorf("Position.String() = %q", got)
	}
	if got := (Offset{3, -4}).String(); got != "(+3, -4)" {
		t.Errorf("Offset.String() = %q", got)
	}
}

func TestPlatformErrorUnwrap(t *testing.T) {
	err := error(&PlatformError{Op: "read", Err: ErrUnsupported})

	if !errors.Is(err, ErrUnsupported) {
		t.Error("expected PlatformError to unwrap to ErrUnsupported")
	}
	var pe *PlatformError
	if !errors.As(err, &pe) || pe.Op != "read" {
		t.Errorf("errors.As failed or wrong op: %v", pe)
	}
}

func TestDisplayWarningFor(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		wayland  string
		x11      string
		wantNote bool
	}{
		{"darwin never warns", "darwin", "", "", false},
		{"windows never warns", "windows", "wayland-0", "", false},
		{"x11 session", "linux", "", ":0", false},
		{"xwayland session", "linux", "wayland-0", ":0", false},
		{"pure wayland", "linux", "wayland-0", "", true},
		{"no display", "linux", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := displayWarningFor(tt.goos, tt.wayland, tt.x11)
			if (got != "") != tt.wantNote {
				t.Errorf("displayWarningFor(%q, %q, %q) = %q, wantNote %v", tt.goos, tt.wayland, tt.x11, got, tt.wantNote)
			}
		})
	}
}
