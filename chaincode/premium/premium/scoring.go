package premium

// Pure scoring functions. Everything here is integer arithmetic: each ratio
// is a multiply followed by a truncating divide, and the order must not be
// rearranged or the truncation behavior changes.

// ageRiskFactor maps an age to a risk factor in percent of neutral risk
// (100 = baseline). Non-decreasing with age, boundary-inclusive on the upper
// end of each band.
func ageRiskFactor(age int) int {
	switch {
	case age <= 25:
		return 80
	case age <= 35:
		return 90
	case age <= 45:
		return 100
	case age <= 55:
		return 110
	case age <= 65:
		return 130
	default:
		return 150
	}
}

// healthScore averages five independent sub-scores. The exercise sub-score
// can exceed 100, so the result ranges over [0, 110] for valid profiles.
func healthScore(p *HealthProfile) int {
	bmiScore := 70
	if p.BMI >= 185 && p.BMI <= 250 {
		bmiScore = 100
	}

	bpScore := 60
	switch {
	case p.SystolicBP <= 120:
		bpScore = 100
	case p.SystolicBP <= 140:
		bpScore = 80
	}

	cholesterolScore := 70
	if p.CholesterolLevel <= 200 {
		cholesterolScore = 100
	}

	smokingScore := 100
	if p.IsSmoker {
		smokingScore = 50
	}

	exerciseScore := 90
	if p.ExerciseFrequency >= 4 {
		exerciseScore = 110
	}

	return (bmiScore + bpScore + cholesterolScore + smokingScore + exerciseScore) / 5
}

// lifestyleScore averages five sub-scores; diet quality and mental health
// pass through as stored.
func lifestyleScore(m *LifestyleMetrics) int {
	stepsScore := 80
	if m.DailySteps >= 8000 {
		stepsScore = 100
	}

	sleepScore := 70
	if m.SleepHours >= 7 && m.SleepHours <= 9 {
		sleepScore = 100
	}

	stressScore := 60
	if m.StressLevel <= 3 {
		stressScore = 100
	}

	return (stepsScore + sleepScore + stressScore + m.DietQualityScore + m.MentalHealthScore) / 5
}

// riskCategory combines health, lifestyle and genetic scores with 50/30/20
// weights. Each term truncates independently before summing; this is a
// different composite than the one the optimizer uses for the premium
// multiplier and the two must stay separate.
func riskCategory(health, lifestyle, genetic int) string {
	composite := health*50/100 + lifestyle*30/100 + genetic*20/100

	switch {
	case composite >= 90:
		return RiskCategoryLow
	case composite >= 70:
		return RiskCategoryModerate
	case composite >= 50:
		return RiskCategoryHigh
	default:
		return RiskCategoryVeryHigh
	}
}

// compositeRiskScore is the optimizer's weighted composite over health,
// lifestyle and age risk (40/30/20), again with per-term truncation.
func compositeRiskScore(health, lifestyle, ageRisk int) int {
	return health*40/100 + lifestyle*30/100 + ageRisk*20/100
}

// premiumMultiplier selects the multiplier bucket for a composite risk
// score. The highest band rewards a wellness opt-in with a 5% discount and
// everyone else with the configured minimum. The result is clamped to the
// declared multiplier bounds; the bucket table already stays inside them,
// so the ceiling is unreachable as configured.
func premiumMultiplier(composite int, wellness bool) int {
	var multiplier int
	switch {
	case composite >= 90:
		if wellness {
			multiplier = 95
		} else {
			multiplier = MinPremiumMultiplier
		}
	case composite >= 50:
		multiplier = 130
	default:
		multiplier = 180
	}

	if multiplier < MinPremiumMultiplier {
		multiplier = MinPremiumMultiplier
	}
	if multiplier > MaxPremiumMultiplier {
		multiplier = MaxPremiumMultiplier
	}
	return multiplier
}
