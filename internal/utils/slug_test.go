package utils

import (
	"errors"
	"testing"
)

func TestUniqueSlug_FirstCandidateFree(t *testing.T) {
	got, err := UniqueSlug("Green Hills Ranch", func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "green-hills-ranch" {
		t.Fatalf("expected green-hills-ranch, got %s", got)
	}
}

func TestUniqueSlug_SuffixOnCollision(t *testing.T) {
	taken := map[string]bool{"green-hills": true, "green-hills-1": true}
	got, err := UniqueSlug("Green Hills", func(s string) (bool, error) { return taken[s], nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "green-hills-2" {
		t.Fatalf("expected green-hills-2, got %s", got)
	}
}

func TestUniqueSlug_LookupErrorAborts(t *testing.T) {
	boom := errors.New("db down")
	if _, err := UniqueSlug("Anything", func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestBuildAnimalQRURL(t *testing.T) {
	got := BuildAnimalQRURL("https://ruga.example/v1/qr/", "abc-123")
	if got != "https://ruga.example/v1/qr/a/abc-123" {
		t.Fatalf("unexpected url: %s", got)
	}
}
