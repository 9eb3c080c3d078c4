package recommendation

import (
	"time"

	"github.com/socpulse/maturity/internal/domain/kpi"
)

// Recommendation is one generated improvement suggestion. Rows are
// immutable once saved.
type Recommendation struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title" validate:"required"`
	Rationale        string    `json:"rationale" validate:"required"`
	Priority         string    `json:"priority" validate:"required,oneof=critical high medium low"`
	Effort           string    `json:"effort" validate:"required,oneof=low medium high"`
	Category         string    `json:"category" validate:"required"`
	RelatedMetrics   []string  `json:"related_metrics"`
	SuggestedActions []string  `json:"suggested_actions" validate:"required,min=1,dive,required"`
	CreatedAt        time.Time `json:"created_at"`
}

// Priority levels
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Effort levels
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Snapshot is a pointer record naming the recommendation set generated at
// one instant, so the read path can serve the latest set without invoking
// the recommender again. Old rows are retained for audit.
type Snapshot struct {
	ID                string    `json:"id"`
	GeneratedAtUTC    time.Time `json:"generated_at_utc"`
	RecommendationIDs []int64   `json:"recommendation_ids"`
}

// Context is the read-composed KPI state handed to the recommender.
type Context struct {
	WindowFrom            time.Time          `json:"window_from"`
	WindowTo              time.Time          `json:"window_to"`
	Latest                *kpi.Summary       `json:"latest,omitempty"`
	Avg7d                 map[string]float64 `json:"avg_7d"`
	Series                []kpi.TrendPoint   `json:"series"`
	IncidentsByCategory7d []kpi.CategorySum  `json:"incidents_by_category_7d"`
}
