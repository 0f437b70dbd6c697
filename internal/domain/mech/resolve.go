// Package mech implements the deterministic rules engine: check
// resolution, damage application, scene clocks, and the clamped
// corruption/reputation tracks. Everything here is pure with respect to
// the injected roller; nothing in this package touches the bus, the
// narrator, or any repository.
package mech

import "math/rand"

// Tier is one of the six ordered outcome categories of a resolved check.
type Tier int

const (
	TierCriticalFailure Tier = iota
	TierFailure
	TierModerate
	TierGood
	TierExcellent
	TierExceptional
)

func (t Tier) String() string {
	switch t {
	case TierCriticalFailure:
		return "critical_failure"
	case TierFailure:
		return "failure"
	case TierModerate:
		return "moderate"
	case TierGood:
		return "good"
	case TierExcellent:
		return "excellent"
	case TierExceptional:
		return "exceptional_success"
	default:
		return "unknown"
	}
}

// CheckKind selects the margin table used for tier mapping. Ritual
// checks carry a wider failure band with a critical zone at -10 and
// below; mundane checks can only critically fail on a natural 1.
type CheckKind string

const (
	CheckStandard CheckKind = "standard"
	CheckRitual   CheckKind = "ritual"
)

// Roller produces d20 results. Injecting it keeps Resolve deterministic
// under test and seedable per scenario.
type Roller interface {
	D20() int
}

// SeededRoller is a deterministic d20 source. Same seed, same sequence.
type SeededRoller struct {
	rng *rand.Rand
}

func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *SeededRoller) D20() int {
	return r.rng.Intn(20) + 1
}

// ScriptedRoller replays a fixed sequence of rolls, then repeats the
// last entry. Used by tests and by replay verification.
type ScriptedRoller struct {
	Rolls []int
	next  int
}

func (r *ScriptedRoller) D20() int {
	if len(r.Rolls) == 0 {
		return 10
	}
	if r.next >= len(r.Rolls) {
		return r.Rolls[len(r.Rolls)-1]
	}
	v := r.Rolls[r.next]
	r.next++
	return v
}

// Resolution is the immutable numeric result of one check.
type Resolution struct {
	Roll   int  `json:"roll"`
	Total  int  `json:"total"`
	Margin int  `json:"margin"`
	Tier   Tier `json:"tier"`
}

const exceptionalMargin = 15

// Resolve performs one attribute check: attribute x skill + d20 against
// difficulty. Natural-roll overrides are applied before the margin
// bands: a natural 1 is always a critical failure, a natural 20 is
// always an exceptional success unless the margin already earned it.
func Resolve(attribute, skill, difficulty int, kind CheckKind, roller Roller) Resolution {
	roll := roller.D20()
	total := attribute*skill + roll
	margin := total - difficulty

	res := Resolution{Roll: roll, Total: total, Margin: margin}
	switch {
	case roll == 1:
		res.Tier = TierCriticalFailure
	case roll == 20:
		res.Tier = TierExceptional
	default:
		res.Tier = tierForMargin(margin, kind)
	}
	return res
}

func tierForMargin(margin int, kind CheckKind) Tier {
	if margin < 0 {
		if kind == CheckRitual && margin <= -10 {
			return TierCriticalFailure
		}
		return TierFailure
	}
	switch {
	case margin < 5:
		return TierModerate
	case margin < 10:
		return TierGood
	case margin < exceptionalMargin:
		return TierExcellent
	default:
		return TierExceptional
	}
}

// ResolveMorale rolls a Willpower-based morale check against the given
// threshold. Morale is a raw attribute roll (Willpower x 1 + d20), not
// a trained skill check. Success means the combatant holds.
func ResolveMorale(willpower, threshold int, roller Roller) Resolution {
	return Resolve(willpower, 1, threshold, CheckStandard, roller)
}
