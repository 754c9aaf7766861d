package model

import (
	"errors"
	"testing"
)

func TestValidateStatusChange_NoOp(t *testing.T) {
	if err := ValidateStatusChange(AnimalStatusSold, AnimalStatusSold, ""); err != nil {
		t.Fatalf("same-status change should be a no-op, got %v", err)
	}
}

func TestValidateStatusChange_TerminalFrozen(t *testing.T) {
	for _, from := range []AnimalStatus{AnimalStatusSold, AnimalStatusDeceased} {
		err := ValidateStatusChange(from, AnimalStatusActive, "back from the dead")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> active: expected ErrInvalidTransition, got %v", from, err)
		}
	}
}

func TestValidateStatusChange_TerminalNeedsNote(t *testing.T) {
	err := ValidateStatusChange(AnimalStatusActive, AnimalStatusDeceased, "   ")
	if !errors.Is(err, ErrStatusNoteRequired) {
		t.Fatalf("expected ErrStatusNoteRequired, got %v", err)
	}
	if err := ValidateStatusChange(AnimalStatusActive, AnimalStatusSold, "sold at auction"); err != nil {
		t.Fatalf("active -> sold with note should pass, got %v", err)
	}
}

func TestAlertTypeForHealth(t *testing.T) {
	if at, ok := AlertTypeForHealth(HealthStatusSick); !ok || at != AlertHealthSick {
		t.Fatalf("sick should raise %s, got %s ok=%v", AlertHealthSick, at, ok)
	}
	if at, ok := AlertTypeForHealth(HealthStatusQuarantined); !ok || at != AlertHealthQuarantined {
		t.Fatalf("quarantined should raise %s, got %s ok=%v", AlertHealthQuarantined, at, ok)
	}
	if _, ok := AlertTypeForHealth(HealthStatusRecovering); ok {
		t.Fatal("recovering should not raise an alert")
	}
	if _, ok := AlertTypeForHealth(HealthStatusHealthy); ok {
		t.Fatal("healthy should not raise an alert")
	}
}

func TestAlertTypeForStatus(t *testing.T) {
	if at, ok := AlertTypeForStatus(AnimalStatusDeceased); !ok || at != AlertStatusDeceased {
		t.Fatalf("deceased should raise %s, got %s ok=%v", AlertStatusDeceased, at, ok)
	}
	if _, ok := AlertTypeForStatus(AnimalStatusActive); ok {
		t.Fatal("active should not raise an alert")
	}
}
