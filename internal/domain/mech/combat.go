package mech

// TierDamage maps a success tier to the raw damage of a standard
// attack before soak. Failures deal nothing.
func TierDamage(t Tier) int {
	switch t {
	case TierModerate:
		return 6
	case TierGood:
		return 10
	case TierExcellent:
		return 14
	case TierExceptional:
		return 18
	default:
		return 0
	}
}

// ClockStep maps a success tier to how many segments a ritual or
// progress action moves its clock.
func ClockStep(t Tier) int {
	switch t {
	case TierModerate:
		return 1
	case TierGood:
		return 2
	case TierExcellent:
		return 3
	case TierExceptional:
		return 4
	default:
		return 0
	}
}

// TierForMargin exposes the margin-band mapping without rolling.
// Agents use it with an assumed average die to predict their own
// outcomes; the prediction is auxiliary data only.
func TierForMargin(margin int, kind CheckKind) Tier {
	return tierForMargin(margin, kind)
}

// PredictTier estimates the outcome tier of a check assuming an
// average die roll.
func PredictTier(attribute, skill, difficulty int, kind CheckKind) Tier {
	const averageRoll = 10
	return tierForMargin(attribute*skill+averageRoll-difficulty, kind)
}
