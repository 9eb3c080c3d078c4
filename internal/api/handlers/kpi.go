package handlers

import (
	"net/http"

	"github.com/socpulse/maturity/internal/api/dto"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/pkg/errors"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/utils"
)

type KpiHandler struct {
	service kpi.Service
	logger  *logger.Logger
}

func NewKpiHandler(service kpi.Service, log *logger.Logger) *KpiHandler {
	return &KpiHandler{service: service, logger: log}
}

// GetCurrent returns the latest KPI snapshot
// @Summary Current KPI summary
// @Description Get the most recent hourly KPI snapshot. Metric values are -1 when no data was available.
// @Tags KPI
// @Produce json
// @Success 200 {object} dto.KpiSummaryDTO "Latest snapshot summary"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /kpi/current [get]
func (h *KpiHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetCurrent(r.Context())
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to get current KPIs", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// GetTrend returns a metric's time-series
// @Summary Metric trend
// @Description Get a metric's time-series: hourly points for H24, daily weighted points for D7
// @Tags KPI
// @Produce json
// @Param metric query string true "Metric name" Enums(MTTD, MTTR, FALSE_ALARM_RATE, SMS)
// @Param period query string true "Period" Enums(H24, D7)
// @Success 200 {object} dto.TrendDTO "Metric time-series"
// @Failure 400 {object} utils.ErrorResponse "Unknown metric or period"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /kpi/trend [get]
func (h *KpiHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	metric := kpi.Metric(r.URL.Query().Get("metric"))
	if !metric.IsValid() {
		utils.WriteError(w, errors.BadRequest("Unknown metric: must be one of MTTD, MTTR, FALSE_ALARM_RATE, SMS"))
		return
	}

	period := kpi.Period(r.URL.Query().Get("period"))
	if !period.IsValid() {
		utils.WriteError(w, errors.BadRequest("Unknown period: must be H24 or D7"))
		return
	}

	points, err := h.service.GetTrend(r.Context(), metric, period)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to get trend", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.TrendDTO{
		Metric: metric,
		Period: period,
		Points: points,
	})
}

// GetIncidentsByCategory returns aggregated incident counts per category
// @Summary Incidents by category
// @Description Get per-category alert counts summed over the period, sorted descending
// @Tags KPI
// @Produce json
// @Param period query string false "Period (default: D7)" Enums(H24, D7)
// @Success 200 {object} dto.IncidentsByCategoryDTO "Aggregated category counts"
// @Failure 400 {object} utils.ErrorResponse "Unknown period"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /kpi/incidents-by-category [get]
func (h *KpiHandler) GetIncidentsByCategory(w http.ResponseWriter, r *http.Request) {
	period := kpi.PeriodD7
	if p := r.URL.Query().Get("period"); p != "" {
		period = kpi.Period(p)
		if !period.IsValid() {
			utils.WriteError(w, errors.BadRequest("Unknown period: must be H24 or D7"))
			return
		}
	}

	categories, err := h.service.GetIncidentsByCategory(r.Context(), period)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to get incidents by category", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.IncidentsByCategoryDTO{
		Period:     period,
		Categories: categories,
	})
}
