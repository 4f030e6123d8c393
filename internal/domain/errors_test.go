package domain_test

import (
	"errors"
	"testing"

	"github.com/bkyoung/diffcover/internal/domain"
)

func TestDiffSourceErrorUsesStderr(t *testing.T) {
	err := &domain.DiffSourceError{Stderr: "fatal: bad revision 'nope'\n"}

	want := "diff source failed: fatal: bad revision 'nope'"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestDiffSourceErrorFallsBackToWrapped(t *testing.T) {
	inner := errors.New("exit status 128")
	err := &domain.DiffSourceError{Err: inner}

	if err.Error() != "diff source failed: exit status 128" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to unwrap")
	}
}

func TestBelowThresholdErrorMessage(t *testing.T) {
	err := &domain.BelowThresholdError{Percent: 45, Threshold: 80}

	want := "diff coverage 45% is below the fail-under threshold of 80%"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
