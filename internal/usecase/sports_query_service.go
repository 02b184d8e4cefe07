package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
)

// FixtureView is a fixture with its league and both teams attached.
type FixtureView struct {
	Fixture  fixture.Fixture
	League   league.League
	HomeTeam team.Team
	AwayTeam team.Team
}

type SportsQueryService struct {
	leagueRepo  league.Repository
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
}

func NewSportsQueryService(leagueRepo league.Repository, teamRepo team.Repository, fixtureRepo fixture.Repository) *SportsQueryService {
	return &SportsQueryService{
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
	}
}

func (s *SportsQueryService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.ListLeagues")
	defer span.End()

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

func (s *SportsQueryService) GetLeague(ctx context.Context, id int64) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.GetLeague")
	defer span.End()

	if id <= 0 {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	item, exists, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%d", ErrNotFound, id)
	}
	return item, nil
}

func (s *SportsQueryService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *SportsQueryService) GetTeam(ctx context.Context, id int64) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.GetTeam")
	defer span.End()

	if id <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	item, exists, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}
	return item, nil
}

func (s *SportsQueryService) ListFixtures(ctx context.Context, filter fixture.Filter) ([]FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.ListFixtures")
	defer span.End()

	if filter.LeagueID < 0 || filter.Season < 0 {
		return nil, fmt.Errorf("%w: filters must be positive", ErrInvalidInput)
	}
	if filter.LeagueID > 0 {
		if _, exists, err := s.leagueRepo.GetByID(ctx, filter.LeagueID); err != nil {
			return nil, fmt.Errorf("get league: %w", err)
		} else if !exists {
			return nil, fmt.Errorf("%w: league=%d", ErrNotFound, filter.LeagueID)
		}
	}

	items, err := s.fixtureRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	return s.views(ctx, items)
}

func (s *SportsQueryService) GetFixture(ctx context.Context, id int64) (FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.GetFixture")
	defer span.End()

	if id <= 0 {
		return FixtureView{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	item, exists, err := s.fixtureRepo.GetByID(ctx, id)
	if err != nil {
		return FixtureView{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return FixtureView{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, id)
	}

	out, err := s.views(ctx, []fixture.Fixture{item})
	if err != nil {
		return FixtureView{}, err
	}
	return out[0], nil
}

func (s *SportsQueryService) ListLiveFixtures(ctx context.Context) ([]FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.ListLiveFixtures")
	defer span.End()

	items, err := s.fixtureRepo.ListByStatus(ctx, fixture.LiveStatuses())
	if err != nil {
		return nil, fmt.Errorf("list live fixtures: %w", err)
	}
	return s.views(ctx, items)
}

// ListFixturesByDate returns the fixtures kicking off on the given UTC
// calendar day.
func (s *SportsQueryService) ListFixturesByDate(ctx context.Context, date string) ([]FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsQueryService.ListFixturesByDate")
	defer span.End()

	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidInput, date)
	}

	items, err := s.fixtureRepo.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list fixtures by date: %w", err)
	}
	return s.views(ctx, items)
}

func (s *SportsQueryService) views(ctx context.Context, items []fixture.Fixture) ([]FixtureView, error) {
	leagues := make(map[int64]league.League)
	teams := make(map[int64]team.Team)

	out := make([]FixtureView, 0, len(items))
	for _, item := range items {
		view := FixtureView{Fixture: item}

		leagueItem, ok := leagues[item.LeagueID]
		if !ok {
			found, _, err := s.leagueRepo.GetByID(ctx, item.LeagueID)
			if err != nil {
				return nil, fmt.Errorf("get league=%d for fixture=%d: %w", item.LeagueID, item.ID, err)
			}
			leagueItem = found
			leagues[item.LeagueID] = found
		}
		view.League = leagueItem

		for _, ref := range []struct {
			id  int64
			dst *team.Team
		}{
			{id: item.HomeTeamID, dst: &view.HomeTeam},
			{id: item.AwayTeamID, dst: &view.AwayTeam},
		} {
			teamItem, ok := teams[ref.id]
			if !ok {
				found, _, err := s.teamRepo.GetByID(ctx, ref.id)
				if err != nil {
					return nil, fmt.Errorf("get team=%d for fixture=%d: %w", ref.id, item.ID, err)
				}
				teamItem = found
				teams[ref.id] = found
			}
			*ref.dst = teamItem
		}

		out = append(out, view)
	}
	return out, nil
}
