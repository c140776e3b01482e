package geojson

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/couchcryptid/aqi-dashboard/internal/observability"
)

// FeatureCollection is a GeoJSON collection. Only what the dashboard needs
// is decoded; geometry and properties pass through untouched.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one county boundary identified by its FIPS code.
type Feature struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Geometry   json.RawMessage `json:"geometry"`
}

// UnmarshalJSON accepts the feature id as a string or a number.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Feature(raw.plain)

	id := strings.TrimSpace(string(raw.ID))
	if id == "" || id == "null" {
		f.ID = ""
		return nil
	}
	if id[0] == '"' {
		return json.Unmarshal(raw.ID, &f.ID)
	}
	f.ID = id
	return nil
}

// Boundaries indexes county features by FIPS and caches per-state subsets.
// The feature set is immutable after construction.
type Boundaries struct {
	features []Feature
	byFIPS   map[string]int
	cache    *stateCache[FeatureCollection]
	metrics  *observability.Metrics
}

// NewBoundaries indexes fc. Features whose id is not a valid FIPS code are
// dropped.
func NewBoundaries(fc FeatureCollection, cacheSize int, metrics *observability.Metrics) *Boundaries {
	b := &Boundaries{
		byFIPS:  make(map[string]int, len(fc.Features)),
		cache:   newStateCache[FeatureCollection](cacheSize),
		metrics: metrics,
	}
	for _, f := range fc.Features {
		fips, err := domain.NormalizeFIPS(f.ID)
		if err != nil {
			continue
		}
		f.ID = fips
		if f.Type == "" {
			f.Type = "Feature"
		}
		b.byFIPS[fips] = len(b.features)
		b.features = append(b.features, f)
	}
	return b
}

// Len returns the number of indexed features.
func (b *Boundaries) Len() int { return len(b.features) }

// Feature returns the boundary of one county.
func (b *Boundaries) Feature(fips string) (Feature, bool) {
	i, ok := b.byFIPS[fips]
	if !ok {
		return Feature{}, false
	}
	return b.features[i], true
}

// All returns every feature as a collection.
func (b *Boundaries) All() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: b.features}
}

// ForState returns the features whose FIPS starts with the 2-digit state
// prefix. Subsets are cached.
func (b *Boundaries) ForState(prefix string) FeatureCollection {
	if fc, ok := b.cache.get(prefix); ok {
		b.observe("hit")
		return fc
	}
	b.observe("miss")

	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	for _, f := range b.features {
		if strings.HasPrefix(f.ID, prefix) {
			fc.Features = append(fc.Features, f)
		}
	}
	b.cache.put(prefix, fc)
	return fc
}

// CheckReadiness reports an error until features are loaded.
func (b *Boundaries) CheckReadiness(_ context.Context) error {
	if b == nil || len(b.features) == 0 {
		return errors.New("county boundaries not loaded")
	}
	return nil
}

func (b *Boundaries) observe(result string) {
	if b.metrics != nil {
		b.metrics.BoundaryCache.WithLabelValues(result).Inc()
	}
}
