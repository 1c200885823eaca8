package events

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
)

func TestAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := &logging.Logger{SugaredLogger: zap.New(core).Sugar()}

	store := NewInMemoryEventStore(nil)
	audit := NewAuditLogger(logger)
	if err := store.Subscribe(audit.Types, audit); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	_ = store.AppendEvent("session-1", NewEvent(SelectionAppliedEvent, "session-1", SelectionApplied{Field: "repair", Value: "Écran"}))
	_ = store.AppendEvent("session-1", NewEvent(SelectionRejectedEvent, "session-1", SelectionRejected{Field: "brand", Value: "Nokia"}))
	_ = store.AppendEvent("session-1", NewEvent(SelectionsResetEvent, "session-1", SelectionsReset{}))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 audit lines, got %d", len(entries))
	}
	if entries[0].Message != SelectionRejectedEvent {
		t.Errorf("Expected first line %s, got %s", SelectionRejectedEvent, entries[0].Message)
	}

	fields := entries[0].ContextMap()
	if fields["session"] != "session-1" {
		t.Errorf("Expected session field session-1, got %v", fields["session"])
	}
	if fields["component"] != "audit" {
		t.Errorf("Expected component audit, got %v", fields["component"])
	}
	if fields["version"] != int64(2) {
		t.Errorf("Expected version 2, got %v", fields["version"])
	}
}
