package ports

import (
	"context"
	"errors"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

// ErrResolutionIncomplete marks a narration result missing required
// outcome-tier data. Recoverable: the numeric resolution stands and
// the narration text is dropped.
var ErrResolutionIncomplete = errors.New("narration result incomplete")

// NarrationContext is everything the narrator needs to turn a resolved
// outcome into prose. The engine's correctness never depends on what
// comes back.
type NarrationContext struct {
	SessionID  string                `json:"session_id"`
	Round      int                   `json:"round"`
	Actor      game.CombatantView    `json:"actor"`
	Resolution game.ActionResolution `json:"resolution"`
	Scene      map[string]any        `json:"scene,omitempty"`
}

// NarrationResult is the typed narration reply. Tier echoes the
// outcome tier the narrator wrote against; the Director validates it
// before trusting the text.
type NarrationResult struct {
	Text string `json:"text"`
	Tier string `json:"tier"`
}

// Narrator is the external narration collaborator: an async boundary
// returning a typed result or an error, nothing more assumed.
type Narrator interface {
	Narrate(ctx context.Context, nc NarrationContext) (NarrationResult, error)
}
