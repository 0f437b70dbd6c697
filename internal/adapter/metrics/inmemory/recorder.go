package inmemory

import (
	"sync"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

type Snapshot struct {
	ResolutionTotal   uint64            `json:"resolution_total"`
	ByTier            map[string]uint64 `json:"by_tier"`
	MoraleHeld        uint64            `json:"morale_held"`
	MoraleBroken      uint64            `json:"morale_broken"`
	NarrationFailures uint64            `json:"narration_failures"`
	ValidationRejects uint64            `json:"validation_rejects"`
}

type Recorder struct {
	mu                sync.Mutex
	byTier            map[string]uint64
	moraleHeld        uint64
	moraleBroken      uint64
	narrationFailures uint64
	validationRejects uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byTier: map[string]uint64{},
	}
}

func (r *Recorder) RecordResolution(tier mech.Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTier[tier.String()]++
}

func (r *Recorder) RecordMoraleCheck(held bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if held {
		r.moraleHeld++
	} else {
		r.moraleBroken++
	}
}

func (r *Recorder) RecordNarrationFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.narrationFailures++
}

func (r *Recorder) RecordValidationReject() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validationRejects++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		MoraleHeld:        r.moraleHeld,
		MoraleBroken:      r.moraleBroken,
		NarrationFailures: r.narrationFailures,
		ValidationRejects: r.validationRejects,
		ByTier:            make(map[string]uint64, len(r.byTier)),
	}
	for k, v := range r.byTier {
		out.ByTier[k] = v
		out.ResolutionTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
