package handlers

import (
	"net/http"

	"github.com/socpulse/maturity/internal/api/dto"
	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/errors"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/utils"
)

type RecommendationHandler struct {
	service recommendation.Service
	logger  *logger.Logger
}

func NewRecommendationHandler(service recommendation.Service, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: service, logger: log}
}

// List returns the latest generated recommendation set
// @Summary List recommendations
// @Description Get the recommendation set named by the newest snapshot pointer. Returns an empty list before the first generation.
// @Tags Recommendations
// @Produce json
// @Success 200 {array} dto.RecommendationDTO "Latest recommendations"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /recommendations [get]
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.Latest(r.Context())
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to list recommendations", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.RecommendationsFromDomain(recs))
}

// Generate invokes the recommender against the current KPI state
// @Summary Generate recommendations
// @Description Build the current KPI context, invoke the configured recommender, store the accepted results and advance the snapshot pointer
// @Tags Recommendations
// @Produce json
// @Success 200 {array} dto.RecommendationDTO "Newly generated recommendations"
// @Failure 502 {object} utils.ErrorResponse "Recommender unavailable"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /recommendations/generate [post]
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.Generate(r.Context())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to generate recommendations", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.RecommendationsFromDomain(recs))
}
