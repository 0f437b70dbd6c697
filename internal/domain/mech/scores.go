package mech

const (
	CorruptionMin = 0
	CorruptionMax = 10

	ReputationMin = -10
	ReputationMax = 10
)

// ApplyCorruption adds delta to a corruption score and clamps the
// result to [0, 10]. Out-of-range input is silently clamped, never an
// error.
func ApplyCorruption(current, delta int) int {
	return clamp(current+delta, CorruptionMin, CorruptionMax)
}

// ApplyReputation adds delta to a reputation score and clamps the
// result to [-10, 10].
func ApplyReputation(current, delta int) int {
	return clamp(current+delta, ReputationMin, ReputationMax)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
