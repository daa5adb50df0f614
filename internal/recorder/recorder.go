package recorder

import "SquadSentinel/internal/model"

// Recorder persists decision history for audit and analysis.
type Recorder interface {
	RecordDecision(rec *model.DecisionRecord) error
	RecordAlert(period int, kind, detail string) error
	Close() error
}
