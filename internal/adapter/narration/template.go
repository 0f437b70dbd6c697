package narration

import (
	"context"
	"fmt"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// TemplateNarrator is the offline fallback: deterministic one-line
// prose composed from the resolved outcome. It never fails, so
// sessions without a narration service still produce readable
// transcripts.
type TemplateNarrator struct{}

func NewTemplateNarrator() TemplateNarrator {
	return TemplateNarrator{}
}

var tierPhrases = map[mech.Tier]string{
	mech.TierCriticalFailure: "fails disastrously",
	mech.TierFailure:         "fails",
	mech.TierModerate:        "barely manages it",
	mech.TierGood:            "succeeds",
	mech.TierExcellent:       "succeeds with style",
	mech.TierExceptional:     "pulls off something remarkable",
}

func (TemplateNarrator) Narrate(_ context.Context, nc ports.NarrationContext) (ports.NarrationResult, error) {
	tier := nc.Resolution.Result.Tier
	phrase, ok := tierPhrases[tier]
	if !ok {
		return ports.NarrationResult{}, ports.ErrResolutionIncomplete
	}
	text := fmt.Sprintf("%s %s: %s (rolled %d, total %d vs difficulty %d)",
		nc.Actor.Name, phrase, nc.Resolution.Declaration.Intent,
		nc.Resolution.Result.Roll, nc.Resolution.Result.Total,
		nc.Resolution.Declaration.Difficulty)
	return ports.NarrationResult{Text: text, Tier: tier.String()}, nil
}
