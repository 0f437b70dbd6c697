package mech

// ApplyStun applies incoming stun against the current stun count.
// Stun is intentionally non-cumulative: a bigger hit replaces the
// current count, a comparable hit (at least half the current count,
// rounded up) nudges it up by one, and a weak hit does nothing.
func ApplyStun(current, incoming int) int {
	switch {
	case incoming > current:
		return incoming
	case incoming*2 >= current:
		return current + 1
	default:
		return current
	}
}

// ApplyWound applies raw damage against soak and converts what gets
// through into wound levels, one per full 5 points dealt. Wounds are
// fully cumulative.
func ApplyWound(current, rawDamage, soak int) int {
	return applyWoundDealt(current, dealtAfterSoak(rawDamage, soak))
}

func applyWoundDealt(current, dealt int) int {
	return current + dealt/5
}

func dealtAfterSoak(rawDamage, soak int) int {
	dealt := rawDamage - soak
	if dealt < 0 {
		return 0
	}
	return dealt
}

// ApplyMixed splits dealt damage between the stun and wound tracks:
// stun takes the larger half (ceil), wounds the smaller (floor).
func ApplyMixed(currentStun, currentWound, rawDamage, soak int) (newStun, newWound int) {
	dealt := dealtAfterSoak(rawDamage, soak)
	stunShare := (dealt + 1) / 2
	woundShare := dealt / 2
	return ApplyStun(currentStun, stunShare), applyWoundDealt(currentWound, woundShare)
}

// PenaltyLevel is the standardized penalty band for a stun or wound
// count: 0, 1-2, 3-4, 5, and 6+.
type PenaltyLevel int

const (
	PenaltyNone PenaltyLevel = iota
	PenaltyLight
	PenaltyModerate
	PenaltySevere
	PenaltyCritical
)

func PenaltyForCount(count int) PenaltyLevel {
	switch {
	case count <= 0:
		return PenaltyNone
	case count <= 2:
		return PenaltyLight
	case count <= 4:
		return PenaltyModerate
	case count == 5:
		return PenaltySevere
	default:
		return PenaltyCritical
	}
}

// MustRollToStayConscious reports whether a stun count obliges a
// consciousness save. Only the 6+ band does.
func MustRollToStayConscious(stun int) bool {
	return PenaltyForCount(stun) == PenaltyCritical
}

// MustRollToStayAlive reports whether a wound count obliges a death
// save. Only the 6+ band does.
func MustRollToStayAlive(wounds int) bool {
	return PenaltyForCount(wounds) == PenaltyCritical
}
