package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/socpulse/maturity/internal/api/dto"
	"github.com/socpulse/maturity/internal/pkg/errors"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/utils"
	"github.com/socpulse/maturity/internal/pkg/validator"
	"github.com/socpulse/maturity/internal/worker"
)

type SnapshotHandler struct {
	job       *worker.SnapshotJob
	logger    *logger.Logger
	validator *validator.Validator
}

func NewSnapshotHandler(job *worker.SnapshotJob, log *logger.Logger, val *validator.Validator) *SnapshotHandler {
	return &SnapshotHandler{job: job, logger: log, validator: val}
}

// Run triggers an immediate snapshot for the last completed hour
// @Summary Run snapshot now
// @Description Compute and persist a snapshot for the last completed hourly window without waiting for the scheduler
// @Tags Snapshots
// @Produce json
// @Success 202 {object} utils.SuccessResponse "Snapshot run started"
// @Router /snapshots/run [post]
func (h *SnapshotHandler) Run(w http.ResponseWriter, r *http.Request) {
	// Detached from the request context so a client disconnect does not
	// abandon a half-written snapshot.
	go h.job.Execute(context.Background())

	utils.WriteSuccessWithMessage(w, http.StatusAccepted, "Snapshot run started", nil)
}

// Backfill recomputes snapshots over a historical range
// @Summary Backfill snapshots
// @Description Recompute and persist hourly snapshots for every window in [from, to). Existing snapshots for the same windows are overwritten.
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param request body dto.BackfillRequest true "Time range to backfill"
// @Success 200 {object} dto.BackfillResponse "Number of windows processed"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or time range"
// @Router /snapshots/backfill [post]
func (h *SnapshotHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	var req dto.BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	if !req.From.Before(req.To) {
		utils.WriteError(w, errors.InvalidWindow("from must be before to"))
		return
	}

	processed := h.job.Backfill(r.Context(), req.From, req.To)

	utils.WriteSuccess(w, http.StatusOK, dto.BackfillResponse{WindowsProcessed: processed})
}
