package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

// SportsQuery is the read side served by the public routes.
type SportsQuery interface {
	ListLeagues(ctx context.Context) ([]league.League, error)
	GetLeague(ctx context.Context, id int64) (league.League, error)
	ListTeams(ctx context.Context) ([]team.Team, error)
	GetTeam(ctx context.Context, id int64) (team.Team, error)
	ListFixtures(ctx context.Context, filter fixture.Filter) ([]usecase.FixtureView, error)
	GetFixture(ctx context.Context, id int64) (usecase.FixtureView, error)
	ListLiveFixtures(ctx context.Context) ([]usecase.FixtureView, error)
	ListFixturesByDate(ctx context.Context, date string) ([]usecase.FixtureView, error)
}

// TriggerRunner accepts fire-and-forget ingestion runs.
type TriggerRunner interface {
	Submit(ctx context.Context, req usecase.TriggerRequest) (ingestionrun.Run, error)
	GetRun(ctx context.Context, runID string) (ingestionrun.Run, error)
}

type Handler struct {
	query     SportsQuery
	runner    TriggerRunner
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(query SportsQuery, runner TriggerRunner, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		query:     query,
		runner:    runner,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startHandlerSpan(ctx, "validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
