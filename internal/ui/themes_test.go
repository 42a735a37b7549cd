package ui

import (
	"testing"
)

func TestSetTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	tests := []struct {
		name     string
		wantName string
		wantTUI  TUITheme
	}{
		{"dark", "dark", DarkTUITheme},
		{"light", "light", LightTUITheme},
		{"none", "none", NoColorTUITheme},
		{"neon", "dark", DarkTUITheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetTheme(tt.name)
			if got := GetCurrentTheme().Name; got != tt.wantName {
				t.Errorf("SetTheme(%q) selected %q, want %q", tt.name, got, tt.wantName)
			}
			if got := GetCurrentTUITheme(); got != tt.wantTUI {
				t.Errorf("GetCurrentTUITheme() mismatch for %q", tt.name)
			}
		})
	}
}

func TestInitTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	t.Run("noColor wins over name", func(t *testing.T) {
		InitTheme("light", true)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("expected no-color theme, got %q", GetCurrentTheme().Name)
		}
	})

	t.Run("NO_COLOR environment", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme("dark", false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("expected no-color theme, got %q", GetCurrentTheme().Name)
		}
	})
}

func TestPaint(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	SetCurrentTheme(DarkTheme)
	if got := Paint(ColorGreen(), "ok"); got != DarkTheme.Success+"ok"+DarkTheme.Reset {
		t.Errorf("Paint() = %q", got)
	}

	SetCurrentTheme(NoColorTheme)
	if got := Paint(ColorGreen(), "ok"); got != "ok" {
		t.Errorf("Paint() with no color = %q, want %q", got, "ok")
	}
}
