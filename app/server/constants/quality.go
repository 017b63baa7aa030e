package constants

const (
	MeasurementMin = 0.0
	MeasurementMax = 100.0

	MonthMin = 1
	MonthMax = 12
	YearMin  = 2001 // 年份需大于 2000
)
