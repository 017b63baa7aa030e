package types

import "concentrate-quality/app/server/stats"

// RecordPayload 单条批次数据，指标为指针以区分缺失与 0
type RecordPayload struct {
	Name     *string  `json:"name"`
	Iron     *float64 `json:"iron"`
	Silicon  *float64 `json:"silicon"`
	Aluminum *float64 `json:"aluminum"`
	Calcium  *float64 `json:"calcium"`
	Sulfur   *float64 `json:"sulfur"`
}

type MonthDataInput struct {
	Month   *int            `json:"month"`
	Year    *int            `json:"year"`
	Data    []RecordPayload `json:"data"`
	Replace bool            `json:"replace"` // 为真时替换该周期已有的数据
}

type Record struct {
	Name     string  `json:"name"`
	Iron     float64 `json:"iron"`
	Silicon  float64 `json:"silicon"`
	Aluminum float64 `json:"aluminum"`
	Calcium  float64 `json:"calcium"`
	Sulfur   float64 `json:"sulfur"`
}

type MonthData struct {
	Month int      `json:"month"`
	Year  int      `json:"year"`
	Data  []Record `json:"data"`
}

type SummaryResponse struct {
	Month    int           `json:"month"`
	Year     int           `json:"year"`
	Count    int           `json:"count"`
	Iron     stats.Summary `json:"iron"`
	Silicon  stats.Summary `json:"silicon"`
	Aluminum stats.Summary `json:"aluminum"`
	Calcium  stats.Summary `json:"calcium"`
	Sulfur   stats.Summary `json:"sulfur"`
}

type SaveStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
