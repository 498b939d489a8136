package ui

import (
	"strings"
	"testing"
)

func TestSetTheme(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"orange", "orange"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) -> %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)

	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("InitTheme(true) -> %q, want none", GetCurrentTheme().Name)
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR set -> %q, want none", GetCurrentTheme().Name)
	}
}

func TestColorsPlainWithoutTheme(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)
	SetCurrentTheme(NoColorTheme)

	for name, fn := range map[string]func(string) string{
		"primary": ColorPrimary, "secondary": ColorSecondary, "success": ColorSuccess,
		"warning": ColorWarning, "error": ColorError, "info": ColorInfo, "bold": ColorBold,
	} {
		if got := fn("text"); got != "text" {
			t.Errorf("%s: got %q, want plain text", name, got)
		}
	}
}

func TestBanner(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)
	SetCurrentTheme(NoColorTheme)

	b := Banner("Welcome", "threads: 4", "workload: all")
	for _, want := range []string{"Welcome", "threads: 4", "workload: all", "╭", "╯"} {
		if !strings.Contains(b, want) {
			t.Errorf("banner missing %q:\n%s", want, b)
		}
	}
	if lines := strings.Split(b, "\n"); len(lines) != 5 {
		t.Errorf("banner has %d lines, want 5:\n%s", len(lines), b)
	}
}
