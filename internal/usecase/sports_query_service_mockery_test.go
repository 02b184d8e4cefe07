package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	fixturemock "github.com/riskibarqy/sports-data-service/internal/mocks/domain/fixture"
	leaguemock "github.com/riskibarqy/sports-data-service/internal/mocks/domain/league"
	teammock "github.com/riskibarqy/sports-data-service/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestSportsQueryService_GetFixtureEmbedsParentsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	service := NewSportsQueryService(leagueRepo, teamRepo, fixtureRepo)

	fixtureRepo.On("GetByID", mock.Anything, int64(7)).
		Return(fixture.Fixture{ID: 7, APIID: 1035544, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11}, true, nil).
		Once()
	leagueRepo.On("GetByID", mock.Anything, int64(1)).
		Return(league.League{ID: 1, APIID: 39, Name: "Premier League"}, true, nil).
		Once()
	teamRepo.On("GetByID", mock.Anything, int64(10)).
		Return(team.Team{ID: 10, APIID: 33, Name: "Manchester United"}, true, nil).
		Once()
	teamRepo.On("GetByID", mock.Anything, int64(11)).
		Return(team.Team{ID: 11, APIID: 36, Name: "Fulham"}, true, nil).
		Once()

	got, err := service.GetFixture(ctx, 7)
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if got.League.Name != "Premier League" || got.HomeTeam.Name != "Manchester United" || got.AwayTeam.Name != "Fulham" {
		t.Fatalf("unexpected view: %+v", got)
	}
}

func TestSportsQueryService_ListFixturesLooksUpParentsOnceUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	service := NewSportsQueryService(leagueRepo, teamRepo, fixtureRepo)

	filter := fixture.Filter{LeagueID: 1, Season: 2024}
	leagueRepo.On("GetByID", mock.Anything, int64(1)).Return(league.League{ID: 1}, true, nil).Twice()
	fixtureRepo.On("List", mock.Anything, filter).Return([]fixture.Fixture{
		{ID: 1, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11},
		{ID: 2, LeagueID: 1, HomeTeamID: 11, AwayTeamID: 10},
	}, nil).Once()
	teamRepo.On("GetByID", mock.Anything, int64(10)).Return(team.Team{ID: 10}, true, nil).Once()
	teamRepo.On("GetByID", mock.Anything, int64(11)).Return(team.Team{ID: 11}, true, nil).Once()

	got, err := service.ListFixtures(ctx, filter)
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	if len(got) != 2 || got[1].HomeTeam.ID != 11 {
		t.Fatalf("unexpected views: %+v", got)
	}
}

func TestSportsQueryService_ListFixturesUnknownLeagueUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewSportsQueryService(leagueRepo, teammock.NewRepository(t), fixturemock.NewRepository(t))

	leagueRepo.On("GetByID", mock.Anything, int64(99)).Return(league.League{}, false, nil).Once()

	_, err := service.ListFixtures(context.Background(), fixture.Filter{LeagueID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSportsQueryService_ListFixturesByDateUsesUTCDayUsingMockery(t *testing.T) {
	t.Parallel()

	fixtureRepo := fixturemock.NewRepository(t)
	service := NewSportsQueryService(leaguemock.NewRepository(t), teammock.NewRepository(t), fixtureRepo)

	from := time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC)
	fixtureRepo.On("ListBetween", mock.Anything, from, from.AddDate(0, 0, 1)).Return([]fixture.Fixture{}, nil).Once()

	got, err := service.ListFixturesByDate(context.Background(), "2024-08-16")
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(got))
	}

	if _, err := service.ListFixturesByDate(context.Background(), "16-08-2024"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSportsQueryService_ListLiveFixturesUsingMockery(t *testing.T) {
	t.Parallel()

	fixtureRepo := fixturemock.NewRepository(t)
	service := NewSportsQueryService(leaguemock.NewRepository(t), teammock.NewRepository(t), fixtureRepo)

	fixtureRepo.On("ListByStatus", mock.Anything, fixture.LiveStatuses()).Return([]fixture.Fixture{}, nil).Once()

	if _, err := service.ListLiveFixtures(context.Background()); err != nil {
		t.Fatalf("list live: %v", err)
	}
}

func TestSportsQueryService_GetTeamNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	service := NewSportsQueryService(leaguemock.NewRepository(t), teamRepo, fixturemock.NewRepository(t))

	teamRepo.On("GetByID", mock.Anything, int64(5)).Return(team.Team{}, false, nil).Once()

	if _, err := service.GetTeam(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetTeam(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
