package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
)

const dateLayout = "2006-01-02"

type IngestionState string

const (
	StateFetching    IngestionState = "fetching"
	StateProcessing  IngestionState = "processing"
	StateDone        IngestionState = "done"
	StateFetchFailed IngestionState = "fetch_failed"
	StateCancelled   IngestionState = "cancelled"
)

// IngestionQuery parameterizes one pass. Teams and fixtures need a league and
// a season; Date only applies to fixtures.
type IngestionQuery struct {
	LeagueAPIID int64  `json:"league_api_id,omitempty"`
	Season      int    `json:"season,omitempty"`
	Date        string `json:"date,omitempty"`
}

type RecordFailure struct {
	Index   int    `json:"index"`
	APIID   int64  `json:"api_id,omitempty"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type IngestionResult struct {
	Kind       ResourceKind    `json:"kind"`
	Query      IngestionQuery  `json:"query"`
	State      IngestionState  `json:"state"`
	Attempted  int             `json:"attempted"`
	Succeeded  int             `json:"succeeded"`
	Failed     []RecordFailure `json:"failed,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// IngestionService runs one fetch-normalize-reconcile pass per call.
type IngestionService struct {
	provider   SportDataProvider
	normalizer RecordNormalizer
	reconciler *Reconciler
	logger     *logging.Logger
	now        func() time.Time
}

func NewIngestionService(
	provider SportDataProvider,
	normalizer RecordNormalizer,
	reconciler *Reconciler,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		provider:   provider,
		normalizer: normalizer,
		reconciler: reconciler,
		logger:     logger,
		now:        time.Now,
	}
}

// Ingest fetches one page for kind and reconciles every record. A fetch
// failure fails the whole pass; record failures are collected in the result
// and never stop the remaining records.
func (s *IngestionService) Ingest(ctx context.Context, kind ResourceKind, query IngestionQuery) (IngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	query, err := normalizeIngestionQuery(kind, query)
	if err != nil {
		return IngestionResult{Kind: kind, Query: query}, err
	}
	if s.provider == nil {
		return IngestionResult{Kind: kind, Query: query}, fmt.Errorf("%w: sport data provider is not configured", ErrDependencyUnavailable)
	}

	result := IngestionResult{
		Kind:      kind,
		Query:     query,
		State:     StateFetching,
		StartedAt: s.now().UTC(),
	}

	records, err := s.fetch(ctx, kind, query)
	if err != nil {
		result.State = StateFetchFailed
		result.FinishedAt = s.now().UTC()
		s.logger.WarnContext(ctx, "ingestion fetch failed",
			"kind", kind,
			"league_api_id", query.LeagueAPIID,
			"season", query.Season,
			"date", query.Date,
			"error", err,
		)
		return result, fmt.Errorf("%w: %s: %w", ErrFetchFailed, kind, err)
	}

	result.State = StateProcessing
	procErr := s.processRecords(ctx, kind, records, &result)
	result.FinishedAt = s.now().UTC()
	if procErr != nil {
		result.State = StateCancelled
		s.logger.WarnContext(ctx, "ingestion cancelled",
			"kind", kind,
			"processed", result.Attempted,
			"total", len(records),
			"error", procErr,
		)
		return result, procErr
	}

	result.State = StateDone
	s.logger.InfoContext(ctx, "ingestion pass done",
		"kind", kind,
		"league_api_id", query.LeagueAPIID,
		"season", query.Season,
		"date", query.Date,
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", len(result.Failed),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	)
	return result, nil
}

func (s *IngestionService) fetch(ctx context.Context, kind ResourceKind, query IngestionQuery) ([]RawRecord, error) {
	switch kind {
	case ResourceLeagues:
		return s.provider.FetchLeagues(ctx)
	case ResourceTeams:
		return s.provider.FetchTeams(ctx, query.LeagueAPIID, query.Season)
	case ResourceFixtures:
		return s.provider.FetchFixtures(ctx, query.LeagueAPIID, query.Season, query.Date)
	case ResourceLiveFixtures:
		return s.provider.FetchLiveFixtures(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, kind)
	}
}

// processRecords walks the batch in order. It returns only the context error
// when the batch was interrupted; records already reconciled stay committed.
func (s *IngestionService) processRecords(ctx context.Context, kind ResourceKind, records []RawRecord, result *IngestionResult) error {
	for idx, raw := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		result.Attempted++
		apiID, err := s.reconcileRecord(ctx, kind, raw)
		if err == nil {
			result.Succeeded++
			continue
		}

		recordErr := &RecordIngestionError{Kind: kind, Index: idx, APIID: apiID, Cause: err}
		result.Failed = append(result.Failed, RecordFailure{
			Index:   idx,
			APIID:   apiID,
			Reason:  recordErr.Reason(),
			Message: recordErr.Error(),
		})
		s.logger.WarnContext(ctx, "ingestion record failed",
			"kind", kind,
			"index", idx,
			"api_id", apiID,
			"reason", recordErr.Reason(),
			"error", recordErr,
		)
	}

	return nil
}

func (s *IngestionService) reconcileRecord(ctx context.Context, kind ResourceKind, raw RawRecord) (int64, error) {
	switch kind {
	case ResourceLeagues:
		item, err := s.normalizer.NormalizeLeague(raw)
		if err != nil {
			return 0, asMalformed(err)
		}
		_, err = s.reconciler.UpsertLeague(ctx, item)
		return item.APIID, err
	case ResourceTeams:
		item, err := s.normalizer.NormalizeTeam(raw)
		if err != nil {
			return 0, asMalformed(err)
		}
		_, err = s.reconciler.UpsertTeam(ctx, item)
		return item.APIID, err
	case ResourceFixtures, ResourceLiveFixtures:
		item, err := s.normalizer.NormalizeFixture(raw)
		if err != nil {
			return 0, asMalformed(err)
		}
		_, err = s.reconciler.ReconcileFixture(ctx, item)
		return item.APIID, err
	default:
		return 0, fmt.Errorf("%w: unknown resource kind %q", ErrMalformedRecord, kind)
	}
}

func asMalformed(err error) error {
	if errors.Is(err, ErrMalformedRecord) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
}

func normalizeIngestionQuery(kind ResourceKind, query IngestionQuery) (IngestionQuery, error) {
	switch kind {
	case ResourceLeagues, ResourceLiveFixtures:
		return IngestionQuery{}, nil
	case ResourceTeams, ResourceFixtures:
	default:
		return query, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, kind)
	}

	if query.LeagueAPIID <= 0 {
		return query, fmt.Errorf("%w: league id is required for %s", ErrInvalidInput, kind)
	}
	if err := validateSeason(query.Season); err != nil {
		return query, err
	}

	if kind == ResourceTeams {
		query.Date = ""
		return query, nil
	}
	if query.Date != "" {
		if _, err := time.Parse(dateLayout, query.Date); err != nil {
			return query, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidInput, query.Date)
		}
	}
	return query, nil
}

func validateSeason(season int) error {
	if season < 1900 || season > 2999 {
		return fmt.Errorf("%w: season must be a four digit year, got %d", ErrInvalidInput, season)
	}
	return nil
}
