package utils

import "testing"

func TestDeriveParameterKey(t *testing.T) {
	taken := map[string]struct{}{}

	if got := DeriveParameterKey("Head Ache", taken); got != "head-ache" {
		t.Fatalf("DeriveParameterKey(Head Ache) = %q", got)
	}
	if got := DeriveParameterKey("Усталость", taken); got == "" {
		t.Fatalf("cyrillic name should transliterate, got empty key")
	}
}

func TestDeriveParameterKeyFallback(t *testing.T) {
	// All-symbol names slugify to nothing and get a numbered fallback.
	taken := map[string]struct{}{}
	first := DeriveParameterKey("!!!", taken)
	if first != "param_1" {
		t.Fatalf("expected param_1, got %q", first)
	}
	taken[first] = struct{}{}

	second := DeriveParameterKey("???", taken)
	if second == first {
		t.Fatalf("fallback keys must not collide within a batch")
	}
	if second != "param_2" {
		t.Fatalf("expected param_2, got %q", second)
	}
}

func TestDeriveParameterKeyFallbackSkipsTakenKeys(t *testing.T) {
	taken := map[string]struct{}{
		"fatigue": {},
		"param_2": {},
	}
	got := DeriveParameterKey("***", taken)
	if _, exists := taken[got]; exists {
		t.Fatalf("fallback %q collides with an existing key", got)
	}
}
