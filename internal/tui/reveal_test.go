package tui

import (
	"strings"
	"testing"
)

func TestRevealDisclosesPrefixes(t *testing.T) {
	const text = "Problem: vague instructions"
	r := NewReveal(text)

	if r.Visible() != "" {
		t.Errorf("Visible() before any step = %q, want empty", r.Visible())
	}
	if r.Done() {
		t.Error("Done() before any step = true")
	}

	prev := ""
	for i := 0; !r.Done(); i++ {
		r.Step()
		got := r.Visible()
		if !strings.HasPrefix(text, got) {
			t.Fatalf("Visible() after %d steps = %q, not a prefix of source", i+1, got)
		}
		if !strings.HasPrefix(got, prev) {
			t.Fatalf("Visible() shrank: %q -> %q", prev, got)
		}
		if len([]rune(got)) != i+1 {
			t.Fatalf("after %d steps, %d characters visible", i+1, len([]rune(got)))
		}
		prev = got
	}

	if r.Visible() != text {
		t.Errorf("Visible() after completion = %q, want full text", r.Visible())
	}
}

func TestRevealHandlesMultibyte(t *testing.T) {
	r := NewReveal("héllo ✓")
	if r.Len() != 7 {
		t.Fatalf("Len() = %d, want 7 characters", r.Len())
	}
	r.Step()
	r.Step()
	if r.Visible() != "hé" {
		t.Errorf("Visible() after 2 steps = %q, want %q", r.Visible(), "hé")
	}
}

func TestRevealEmpty(t *testing.T) {
	r := NewReveal("")
	if !r.Done() {
		t.Error("Done() on empty reveal = false, want true")
	}
	if !r.Step() {
		t.Error("Step() on empty reveal = false, want true")
	}
}

func TestRevealStepPastEnd(t *testing.T) {
	r := NewReveal("ab")
	r.Step()
	r.Step()
	r.Step() // extra step must not panic or grow
	if r.Visible() != "ab" {
		t.Errorf("Visible() after extra steps = %q, want %q", r.Visible(), "ab")
	}
}
