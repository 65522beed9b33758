package telemetry

// Labels for AC load, AC voltage, power factor and solar generation.
// Thresholds follow the PZEM analyzer that feeds the backend.

// ClassifyLoad labels an AC load by its active power in watts.
func ClassifyLoad(powerW float64) string {
	switch {
	case powerW < 10:
		return "Very light load"
	case powerW < 50:
		return "Light load"
	case powerW < 200:
		return "Medium load"
	case powerW < 500:
		return "Heavy load"
	default:
		return "Very heavy load"
	}
}

// ClassifyACVoltage labels mains voltage against a 200-240 V band.
func ClassifyACVoltage(v float64) string {
	switch {
	case v < 200:
		return "Low voltage"
	case v > 240:
		return "High voltage"
	default:
		return "Normal voltage"
	}
}

// ClassifyPowerFactor labels a power factor.
func ClassifyPowerFactor(pf float64) string {
	switch {
	case pf < 0.7:
		return "Poor (inductive load)"
	case pf < 0.9:
		return "Fair"
	default:
		return "Good"
	}
}

// ClassifyGeneration labels solar panel output in watts.
func ClassifyGeneration(powerW float64) string {
	switch {
	case powerW < 1:
		return "No generation"
	case powerW < 10:
		return "Very low generation"
	case powerW < 50:
		return "Low generation"
	case powerW < 150:
		return "Good generation"
	default:
		return "Excellent generation"
	}
}
