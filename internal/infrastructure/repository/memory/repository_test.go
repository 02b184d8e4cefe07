package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

func TestLeagueRepository_CreateIfAbsentKeepsStoredRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewLeagueRepository(NewStore())

	first, err := repo.Save(ctx, league.League{APIID: 39, Name: "Premier League"})
	if err != nil {
		t.Fatalf("save league: %v", err)
	}
	got, err := repo.CreateIfAbsent(ctx, league.League{APIID: 39, Name: "Minimal"})
	if err != nil {
		t.Fatalf("create if absent: %v", err)
	}
	if got.ID != first.ID || got.Name != "Premier League" {
		t.Fatalf("stored league was replaced: %+v", got)
	}

	items, _ := repo.List(ctx)
	if len(items) != 1 {
		t.Fatalf("expected one league, got %d", len(items))
	}
}

func TestFixtureRepository_SaveKeepsIdentityColumns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	leagues := NewLeagueRepository(store)
	teams := NewTeamRepository(store)
	fixtures := NewFixtureRepository(store)

	l, _ := leagues.Save(ctx, league.League{APIID: 140})
	home, _ := teams.Save(ctx, team.Team{APIID: 33})
	away, _ := teams.Save(ctx, team.Team{APIID: 34})
	other, _ := teams.Save(ctx, team.Team{APIID: 35})

	created, err := fixtures.Save(ctx, fixture.Fixture{
		APIID: 1035544, LeagueID: l.ID, HomeTeamID: home.ID, AwayTeamID: away.ID, Status: fixture.StatusNotStarted,
	})
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	updated, err := fixtures.Save(ctx, fixture.Fixture{
		APIID: 1035544, LeagueID: l.ID, HomeTeamID: other.ID, AwayTeamID: away.ID, Status: fixture.StatusLive,
	})
	if err != nil {
		t.Fatalf("update fixture: %v", err)
	}
	if updated.ID != created.ID || updated.HomeTeamID != home.ID {
		t.Fatalf("identity changed: created=%+v updated=%+v", created, updated)
	}
	if updated.Status != fixture.StatusLive {
		t.Fatalf("status not refreshed: %s", updated.Status)
	}
}

func TestFixtureRepository_SaveRejectsMissingParents(t *testing.T) {
	t.Parallel()

	_, err := NewFixtureRepository(NewStore()).Save(context.Background(), fixture.Fixture{
		APIID: 1, LeagueID: 1, HomeTeamID: 1, AwayTeamID: 2,
	})
	if err == nil {
		t.Fatalf("expected missing parent error")
	}
}

func TestFixtureRepository_ListBetweenIsHalfOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	l, _ := NewLeagueRepository(store).Save(ctx, league.League{APIID: 39})
	home, _ := NewTeamRepository(store).Save(ctx, team.Team{APIID: 1})
	away, _ := NewTeamRepository(store).Save(ctx, team.Team{APIID: 2})
	repo := NewFixtureRepository(store)

	day := time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC)
	for i, kickoff := range []time.Time{day.Add(-time.Minute), day, day.Add(19 * time.Hour), day.AddDate(0, 0, 1)} {
		if _, err := repo.Save(ctx, fixture.Fixture{
			APIID: int64(100 + i), LeagueID: l.ID, HomeTeamID: home.ID, AwayTeamID: away.ID, Date: kickoff,
		}); err != nil {
			t.Fatalf("save fixture %d: %v", i, err)
		}
	}

	got, err := repo.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(got) != 2 || got[0].APIID != 101 || got[1].APIID != 102 {
		t.Fatalf("unexpected fixtures: %+v", got)
	}
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	uow := NewUnitOfWork(store)
	boom := errors.New("boom")

	err := uow.Do(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		if _, err := repos.Leagues.Save(ctx, league.League{APIID: 39}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_, found, _ := NewLeagueRepository(store).GetByAPIID(ctx, 39)
	if found {
		t.Fatalf("league should have been rolled back")
	}
}

func TestNewSeededStore(t *testing.T) {
	t.Parallel()

	items, err := NewLeagueRepository(NewSeededStore(SeedLeagues())).List(context.Background())
	if err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	if len(items) != len(SeedLeagues()) || items[0].APIID != LeagueAPIIDPremierLeague {
		t.Fatalf("unexpected seeded leagues: %+v", items)
	}
}
