package ports

import "github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"

// SessionMetrics records engine KPIs. Implementations must be safe
// for concurrent use.
type SessionMetrics interface {
	RecordResolution(tier mech.Tier)
	RecordMoraleCheck(held bool)
	RecordNarrationFailure()
	RecordValidationReject()
}
