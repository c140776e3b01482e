package dataset

import (
	"sort"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanAcc) mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// MeanByYearParameter collapses events into one mean-AQI point per
// (year, parameter), sorted by year then parameter.
func MeanByYearParameter(events []domain.CountyPollutantEvent) []domain.ParameterPoint {
	type key struct {
		year      int
		parameter string
	}
	acc := make(map[key]*meanAcc)
	var keys []key
	for _, e := range events {
		k := key{e.Year, e.Parameter}
		a, ok := acc[k]
		if !ok {
			a = &meanAcc{}
			acc[k] = a
			keys = append(keys, k)
		}
		a.add(e.AQI)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].parameter < keys[j].parameter
	})

	out := make([]domain.ParameterPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.ParameterPoint{Year: k.year, Parameter: k.parameter, AQI: acc[k].mean()})
	}
	return out
}

// FilterGroup keeps the points whose parameter belongs to group.
func FilterGroup(points []domain.ParameterPoint, group domain.PollutantGroup) []domain.ParameterPoint {
	out := []domain.ParameterPoint{}
	for _, p := range points {
		if group.Includes(p.Parameter) {
			out = append(out, p)
		}
	}
	return out
}

// MeanByCounty collapses summary rows into one mean-AQI region per
// (year, fips, county), sorted by year, fips, county, and labels each with
// its classification. The second return value counts regions whose mean
// fell outside every classification range.
func MeanByCounty(records []domain.CountyYearRecord, classifier *domain.Classifier) ([]domain.CountyAQI, int) {
	type key struct {
		year   int
		fips   string
		county string
	}
	acc := make(map[key]*meanAcc)
	states := make(map[key]string)
	var keys []key
	for _, r := range records {
		k := key{r.Year, r.FIPS, r.County}
		a, ok := acc[k]
		if !ok {
			a = &meanAcc{}
			acc[k] = a
			states[k] = r.State
			keys = append(keys, k)
		}
		a.add(r.AQI)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.fips != b.fips {
			return a.fips < b.fips
		}
		return a.county < b.county
	})

	unclassified := 0
	out := make([]domain.CountyAQI, 0, len(keys))
	for _, k := range keys {
		aqi := acc[k].mean()
		label, err := classifier.Classify(aqi)
		if err != nil {
			unclassified++
		}
		out = append(out, domain.CountyAQI{
			Year:           k.year,
			FIPS:           k.fips,
			State:          states[k],
			County:         k.county,
			AQI:            aqi,
			Classification: label,
		})
	}
	return out, unclassified
}
