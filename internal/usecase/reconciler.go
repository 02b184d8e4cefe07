package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
)

// Repositories is the set of stores visible inside one unit of work.
type Repositories struct {
	Leagues  league.Repository
	Teams    team.Repository
	Fixtures fixture.Repository
}

// UnitOfWork runs fn atomically. Repositories passed to fn must only be used
// inside fn.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type naturalKeyReader[T any] interface {
	GetByAPIID(ctx context.Context, apiID int64) (T, bool, error)
}

type naturalKeyCreator[T any] interface {
	naturalKeyReader[T]
	CreateIfAbsent(ctx context.Context, item T) (T, error)
}

type naturalKeySaver[T any] interface {
	naturalKeyReader[T]
	Save(ctx context.Context, item T) (T, error)
}

// resolveOrCreate returns the stored entity for apiID. build is called only
// on a miss and its result is persisted before returning. A hit is returned
// as stored, without refreshing descriptive fields.
func resolveOrCreate[T any](ctx context.Context, store naturalKeyCreator[T], apiID int64, build func() T) (T, bool, error) {
	var zero T

	existing, found, err := store.GetByAPIID(ctx, apiID)
	if err != nil {
		return zero, false, fmt.Errorf("%w: lookup api_id=%d: %w", ErrPersistence, apiID, err)
	}
	if found {
		return existing, false, nil
	}

	created, err := store.CreateIfAbsent(ctx, build())
	if err != nil {
		return zero, false, fmt.Errorf("%w: create api_id=%d: %w", ErrPersistence, apiID, err)
	}
	return created, true, nil
}

// upsert loads the entity for apiID, lets apply produce the full new state
// and saves it. Errors from apply are returned unchanged.
func upsert[T any](ctx context.Context, store naturalKeySaver[T], apiID int64, apply func(existing T, found bool) (T, error)) (T, bool, error) {
	var zero T

	existing, found, err := store.GetByAPIID(ctx, apiID)
	if err != nil {
		return zero, false, fmt.Errorf("%w: lookup api_id=%d: %w", ErrPersistence, apiID, err)
	}

	next, err := apply(existing, found)
	if err != nil {
		return zero, false, err
	}

	saved, err := store.Save(ctx, next)
	if err != nil {
		return zero, false, fmt.Errorf("%w: save api_id=%d: %w", ErrPersistence, apiID, err)
	}
	return saved, !found, nil
}

// Reconciler merges normalized external records into the store.
type Reconciler struct {
	uow    UnitOfWork
	logger *logging.Logger
}

func NewReconciler(uow UnitOfWork, logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reconciler{uow: uow, logger: logger}
}

func (r *Reconciler) UpsertLeague(ctx context.Context, in ExternalLeague) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Reconciler.UpsertLeague")
	defer span.End()

	if in.APIID <= 0 {
		return league.League{}, fmt.Errorf("%w: league id is missing", ErrMalformedRecord)
	}

	var out league.League
	err := r.do(ctx, func(ctx context.Context, repos Repositories) error {
		saved, _, err := upsert[league.League](ctx, repos.Leagues, in.APIID, func(existing league.League, _ bool) (league.League, error) {
			existing.APIID = in.APIID
			existing.Name = in.Name
			existing.Type = in.Type
			existing.Country = in.Country
			existing.LogoURL = in.LogoURL
			return existing, nil
		})
		out = saved
		return err
	})
	if err != nil {
		return league.League{}, err
	}
	return out, nil
}

func (r *Reconciler) UpsertTeam(ctx context.Context, in ExternalTeam) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Reconciler.UpsertTeam")
	defer span.End()

	if in.APIID <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id is missing", ErrMalformedRecord)
	}

	var out team.Team
	err := r.do(ctx, func(ctx context.Context, repos Repositories) error {
		saved, _, err := upsert[team.Team](ctx, repos.Teams, in.APIID, func(existing team.Team, _ bool) (team.Team, error) {
			existing.APIID = in.APIID
			existing.Name = in.Name
			existing.Code = in.Code
			existing.Country = in.Country
			existing.Founded = in.Founded
			existing.National = in.National
			existing.LogoURL = in.LogoURL
			return existing, nil
		})
		out = saved
		return err
	})
	if err != nil {
		return team.Team{}, err
	}
	return out, nil
}

// ReconcileFixture resolves the league, the home team and the away team, in
// that order, and only then writes the fixture. All four steps share one
// unit of work.
func (r *Reconciler) ReconcileFixture(ctx context.Context, in ExternalFixture) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Reconciler.ReconcileFixture")
	defer span.End()

	if err := checkFixtureReferences(in); err != nil {
		return fixture.Fixture{}, err
	}

	var out fixture.Fixture
	err := r.do(ctx, func(ctx context.Context, repos Repositories) error {
		leagueRef, created, err := resolveOrCreate[league.League](ctx, repos.Leagues, in.League.APIID, func() league.League {
			return league.League{
				APIID:   in.League.APIID,
				Name:    in.League.Name,
				Type:    in.League.Type,
				Country: in.League.Country,
				LogoURL: in.League.LogoURL,
			}
		})
		if err != nil {
			return err
		}
		if created {
			r.logCreatedParent(ctx, "league", in.League.APIID, in.APIID)
		}

		homeRef, err := r.resolveTeam(ctx, repos.Teams, in.Home, in.APIID)
		if err != nil {
			return err
		}
		awayRef, err := r.resolveTeam(ctx, repos.Teams, in.Away, in.APIID)
		if err != nil {
			return err
		}

		saved, _, err := upsertFixture(ctx, repos.Fixtures, in, leagueRef, homeRef, awayRef)
		out = saved
		return err
	})
	if err != nil {
		return fixture.Fixture{}, err
	}
	return out, nil
}

func (r *Reconciler) resolveTeam(ctx context.Context, repo team.Repository, ref ExternalTeam, fixtureAPIID int64) (team.Team, error) {
	item, created, err := resolveOrCreate[team.Team](ctx, repo, ref.APIID, func() team.Team {
		return team.Team{
			APIID:   ref.APIID,
			Name:    ref.Name,
			LogoURL: ref.LogoURL,
		}
	})
	if err != nil {
		return team.Team{}, err
	}
	if created {
		r.logCreatedParent(ctx, "team", ref.APIID, fixtureAPIID)
	}
	return item, nil
}

// logCreatedParent reports a parent stub built from a fixture payload.
func (r *Reconciler) logCreatedParent(ctx context.Context, kind string, apiID, fixtureAPIID int64) {
	r.logger.WarnContext(ctx, kind+" not found, created from fixture payload",
		"parent", kind,
		kind+"_api_id", apiID,
		"fixture_api_id", fixtureAPIID,
	)
}

// upsertFixture writes identity fields only when the fixture is new and
// refreshes the snapshot fields every time.
func upsertFixture(ctx context.Context, repo fixture.Repository, in ExternalFixture, leagueRef league.League, homeRef, awayRef team.Team) (fixture.Fixture, bool, error) {
	return upsert[fixture.Fixture](ctx, repo, in.APIID, func(existing fixture.Fixture, found bool) (fixture.Fixture, error) {
		if !found {
			existing = fixture.Fixture{
				APIID:      in.APIID,
				LeagueID:   leagueRef.ID,
				HomeTeamID: homeRef.ID,
				AwayTeamID: awayRef.ID,
				Season:     in.Season,
			}
		}
		applyFixtureSnapshot(&existing, in)
		if err := existing.Validate(); err != nil {
			return fixture.Fixture{}, fmt.Errorf("%w: %w", ErrReferenceResolution, err)
		}
		return existing, nil
	})
}

func applyFixtureSnapshot(dst *fixture.Fixture, in ExternalFixture) {
	dst.Date = in.Date
	dst.Timezone = in.Timezone
	dst.Timestamp = in.Timestamp
	dst.Status = in.Status
	dst.StatusShort = in.StatusShort
	dst.Elapsed = in.Elapsed
	dst.GoalsHome = in.GoalsHome
	dst.GoalsAway = in.GoalsAway
	dst.Score = in.Score
	dst.VenueAPIID = in.VenueAPIID
	dst.VenueName = in.VenueName
	dst.VenueCity = in.VenueCity
	dst.Referee = in.Referee
	if in.Season > 0 {
		dst.Season = in.Season
	}
}

func checkFixtureReferences(in ExternalFixture) error {
	switch {
	case in.APIID <= 0:
		return fmt.Errorf("%w: fixture id is missing", ErrMalformedRecord)
	case in.League.APIID <= 0:
		return fmt.Errorf("%w: league id is missing", ErrReferenceResolution)
	case in.Home.APIID <= 0:
		return fmt.Errorf("%w: home team id is missing", ErrReferenceResolution)
	case in.Away.APIID <= 0:
		return fmt.Errorf("%w: away team id is missing", ErrReferenceResolution)
	case in.Home.APIID == in.Away.APIID:
		return fmt.Errorf("%w: home and away team are both %d", ErrReferenceResolution, in.Home.APIID)
	}
	return nil
}

func (r *Reconciler) do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	err := r.uow.Do(ctx, fn)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) || errors.Is(err, ErrReferenceResolution) || errors.Is(err, ErrMalformedRecord) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
