package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tradecheck/internal/model"
	"tradecheck/internal/runner"
)

func TestUpdate_SuccessfulSubmissionClearsInput(t *testing.T) {
	m := NewModel(nil, nil, "")
	m.urlInput.SetValue("https://example-supplier.com")

	jc := &runner.JobContext{Job: model.Job{ID: "a1b2c3d4e5f6"}}
	next, _ := m.Update(submittedMsg{jc: jc})
	got := next.(Model)

	if got.urlInput.Value() != "" {
		t.Errorf("Expected input cleared after submission, got %q", got.urlInput.Value())
	}
	if !got.running {
		t.Error("Expected model to be running after submission")
	}
	if got.jc != jc {
		t.Error("Expected job context to be stored")
	}
}

func TestUpdate_SuccessfulSubmissionRefreshesHistory(t *testing.T) {
	m := NewModel(nil, nil, "")

	jc := &runner.JobContext{Job: model.Job{ID: "a1b2c3d4e5f6"}}
	next, cmd := m.Update(submittedMsg{jc: jc})
	_ = next

	if cmd == nil {
		t.Fatal("Expected a command after submission")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("Expected a batched command after submission")
	}
	found := false
	for _, c := range batch {
		if _, ok := c().(historyMsg); ok {
			found = true
		}
	}
	if !found {
		t.Error("Expected a history refresh after submission")
	}
}

func TestUpdate_FailedSubmissionKeepsInput(t *testing.T) {
	m := NewModel(nil, nil, "")
	m.urlInput.SetValue("https://example-supplier.com")

	next, _ := m.Update(submittedMsg{err: errors.New("connection refused")})
	got := next.(Model)

	if got.urlInput.Value() != "https://example-supplier.com" {
		t.Errorf("Expected input preserved after failed submission, got %q", got.urlInput.Value())
	}
	if got.running {
		t.Error("Expected model to be idle after failed submission")
	}
	if got.errorText == "" {
		t.Error("Expected an error message after failed submission")
	}
}
