package recorder

import "SquadSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(_ *model.DecisionRecord) error { return nil }
func (n *NoopRecorder) RecordAlert(_ int, _ string, _ string) error  { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
