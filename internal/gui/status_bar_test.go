package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestStatusBar_SetStatus(t *testing.T) {
	test.NewApp()
	sb := NewStatusBar()

	if sb.GetMessage() != "Ready" {
		t.Errorf("initial message = %q, want %q", sb.GetMessage(), "Ready")
	}
	if sb.GetLevel() != StatusInfo {
		t.Errorf("initial level = %v, want StatusInfo", sb.GetLevel())
	}

	sb.SetProgress("Running simulation...")
	if sb.GetLevel() != StatusProgress {
		t.Errorf("level = %v, want StatusProgress", sb.GetLevel())
	}
	if sb.GetMessage() != "Running simulation..." {
		t.Errorf("message = %q, want %q", sb.GetMessage(), "Running simulation...")
	}
}

func TestStatusBar_UpdateProgress(t *testing.T) {
	test.NewApp()
	sb := NewStatusBar()

	// Not in progress: activity ticks must not disturb the current status.
	sb.UpdateProgress("iteration 12")
	if sb.GetMessage() != "Ready" {
		t.Errorf("message = %q, want %q", sb.GetMessage(), "Ready")
	}

	sb.SetProgress("Running simulation...")
	sb.UpdateProgress("iteration 12")
	if sb.GetMessage() != "iteration 12" {
		t.Errorf("message = %q, want %q", sb.GetMessage(), "iteration 12")
	}
	if sb.GetLevel() != StatusProgress {
		t.Errorf("level = %v, want StatusProgress", sb.GetLevel())
	}

	// A terminal status from the run callback wins over late ticks.
	sb.SetSuccess("Simulation completed")
	sb.UpdateProgress("iteration 13")
	if sb.GetMessage() != "Simulation completed" {
		t.Errorf("message = %q, want %q", sb.GetMessage(), "Simulation completed")
	}
}
