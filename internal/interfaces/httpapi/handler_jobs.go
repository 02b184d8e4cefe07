package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

const maxTriggerBodyBytes = 64 << 10

type dailyFixturesJobRequest struct {
	LeagueID int64  `json:"league_id" validate:"omitempty,gt=0"`
	Season   int    `json:"season" validate:"omitempty,gte=1900,lte=2100"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type seasonJobRequest struct {
	LeagueID int64 `json:"league_id" validate:"required,gt=0"`
	Season   int   `json:"season" validate:"required,gte=1900,lte=2100"`
}

func (h *Handler) RunIngestLeaguesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunIngestLeaguesJob")
	defer span.End()

	h.submit(w, r.WithContext(ctx), usecase.TriggerRequest{Job: usecase.JobIngestLeagues})
}

func (h *Handler) RunIngestLiveFixturesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunIngestLiveFixturesJob")
	defer span.End()

	h.submit(w, r.WithContext(ctx), usecase.TriggerRequest{Job: usecase.JobIngestLiveFixtures})
}

func (h *Handler) RunIngestDailyFixturesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunIngestDailyFixturesJob")
	defer span.End()

	var req dailyFixturesJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.submit(w, r.WithContext(ctx), usecase.TriggerRequest{
		Job:         usecase.JobIngestDailyFixtures,
		LeagueAPIID: req.LeagueID,
		Season:      req.Season,
		Date:        req.Date,
	})
}

func (h *Handler) RunIngestTeamsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunIngestTeamsJob")
	defer span.End()

	h.submitSeasonJob(w, r.WithContext(ctx), usecase.JobIngestTeams)
}

func (h *Handler) RunIngestSeasonFixturesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunIngestSeasonFixturesJob")
	defer span.End()

	h.submitSeasonJob(w, r.WithContext(ctx), usecase.JobIngestSeasonFixtures)
}

func (h *Handler) GetJobRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetJobRun")
	defer span.End()

	if h.runner == nil {
		writeError(ctx, w, fmt.Errorf("%w: trigger runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	runID := r.PathValue("runID")
	run, err := h.runner.GetRun(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get job run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, runToDTO(run))
}

func (h *Handler) submitSeasonJob(w http.ResponseWriter, r *http.Request, job string) {
	ctx := r.Context()

	var req seasonJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.submit(w, r, usecase.TriggerRequest{
		Job:         job,
		LeagueAPIID: req.LeagueID,
		Season:      req.Season,
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, req usecase.TriggerRequest) {
	ctx := r.Context()

	if h.runner == nil {
		writeError(ctx, w, fmt.Errorf("%w: trigger runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req.Source = ingestionrun.SourceManual
	run, err := h.runner.Submit(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "submit job failed", "job", req.Job, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "job accepted", "job", req.Job, "run_id", run.ID, "league_api_id", req.LeagueAPIID, "season", req.Season)
	writeSuccess(ctx, w, http.StatusAccepted, triggerAcceptedDTO{
		RunID:  run.ID,
		Job:    run.JobName,
		Status: string(ingestionrun.StatusStarted),
	})
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// decodeJobRequest treats an empty body as the zero request.
func decodeJobRequest(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTriggerBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxTriggerBodyBytes {
		return fmt.Errorf("%w: payload exceeds %d bytes", usecase.ErrInvalidInput, maxTriggerBodyBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
