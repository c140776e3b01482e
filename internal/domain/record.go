package domain

// CountyYearRecord is one row of the county-year summary table.
type CountyYearRecord struct {
	State  string  `json:"state"`
	County string  `json:"county"`
	FIPS   string  `json:"fips"` // always 5 characters, zero-padded
	Year   int     `json:"year"`
	AQI    float64 `json:"aqi"`
}

// CountyPollutantEvent is one row of the per-measurement detail table.
type CountyPollutantEvent struct {
	State     string  `json:"state"`
	County    string  `json:"county"`
	Parameter string  `json:"parameter"`
	Year      int     `json:"year"`
	AQI       float64 `json:"aqi"`
}

// ParameterPoint is the mean AQI of one parameter in one year for a county.
type ParameterPoint struct {
	Year      int     `json:"year"`
	Parameter string  `json:"parameter"`
	AQI       float64 `json:"aqi"`
}

// CountyAQI is the mean AQI of one county in one year, annotated with its
// classification label.
type CountyAQI struct {
	Year           int     `json:"year"`
	FIPS           string  `json:"fips"`
	State          string  `json:"state,omitempty"`
	County         string  `json:"county"`
	AQI            float64 `json:"aqi"`
	Classification string  `json:"classification"`
}
