package activity

const kcalFactor = 1.05

// KcalFor estimates energy expenditure: weight(kg) * distance(km) * 1.05.
func KcalFor(distanceMeters, weightKg float64) float64 {
	return weightKg * (distanceMeters / 1000.0) * kcalFactor
}

// EstimateKcal returns false when there is no distance measurement or no
// usable body weight, so callers can tell "unknown" apart from zero.
func EstimateKcal(distanceMeters *float64, profile *UserProfile) (float64, bool) {
	if distanceMeters == nil || profile == nil || !(profile.WeightKg > 0) {
		return 0, false
	}
	return KcalFor(*distanceMeters, profile.WeightKg), true
}
