package domain

// Price charge for [start, end) at hourlyRate, rounded half up to whole currency units
func Price(hourlyRate int64, interval Interval) (int64, error) {
	if err := interval.Validate(); err != nil {
		return 0, err
	}
	if hourlyRate < 0 {
		return 0, NewValidationError(ReasonInvalidInput, "hourly rate must not be negative")
	}

	minutes := int64(interval.DurationMinutes())
	return (hourlyRate*minutes + 30) / 60, nil
}
