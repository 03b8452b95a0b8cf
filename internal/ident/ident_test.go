package ident

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Summer Party", "summer-party"},
		{"diacritics", "Soirée d'été", "soiree-d-ete"},
		{"symbols collapsed", "Rock & Roll  Night!!", "rock-roll-night"},
		{"already clean", "gala-2026", "gala-2026"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugTruncation(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Slug(long)
	if len(got) != 80 {
		t.Errorf("Slug length = %d, want 80", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("Slug %q has trailing separator after truncation", got)
	}
}

func TestCodeFromMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"event not found", "event_not_found"},
		{"Sold out!", "sold_out"},
		{"Événement introuvable", "evenement_introuvable"},
	}
	for _, tt := range tests {
		if got := CodeFromMessage(tt.msg); got != tt.want {
			t.Errorf("CodeFromMessage(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex("test@example.com")
	want := "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"
	if got != want {
		t.Errorf("SHA256Hex = %q, want %q", got, want)
	}
}
