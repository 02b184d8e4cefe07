package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
)

type ResourceKind string

const (
	ResourceLeagues      ResourceKind = "leagues"
	ResourceTeams        ResourceKind = "teams"
	ResourceFixtures     ResourceKind = "fixtures"
	ResourceLiveFixtures ResourceKind = "live_fixtures"
)

// RawRecord is one undecoded element of a provider response array.
type RawRecord []byte

// SportDataProvider fetches one page of raw records per call.
type SportDataProvider interface {
	FetchLeagues(ctx context.Context) ([]RawRecord, error)
	FetchTeams(ctx context.Context, leagueAPIID int64, season int) ([]RawRecord, error)
	FetchFixtures(ctx context.Context, leagueAPIID int64, season int, date string) ([]RawRecord, error)
	FetchLiveFixtures(ctx context.Context) ([]RawRecord, error)
}

// RecordNormalizer turns raw records into typed partial views. It fails only
// with ErrMalformedRecord.
type RecordNormalizer interface {
	NormalizeLeague(raw RawRecord) (ExternalLeague, error)
	NormalizeTeam(raw RawRecord) (ExternalTeam, error)
	NormalizeFixture(raw RawRecord) (ExternalFixture, error)
}

type ExternalLeague struct {
	APIID   int64
	Name    string
	Type    string
	Country string
	LogoURL string
}

type ExternalTeam struct {
	APIID    int64
	Name     string
	Code     string
	Country  string
	Founded  *int
	National *bool
	LogoURL  string
}

type ExternalFixture struct {
	APIID       int64
	Referee     string
	Timezone    string
	Date        time.Time
	Timestamp   int64
	Status      string
	StatusShort string
	Elapsed     *int
	VenueAPIID  *int64
	VenueName   string
	VenueCity   string
	// League and the two teams are references; only the fields present in
	// the fixture payload are filled.
	League    ExternalLeague
	Season    int
	Home      ExternalTeam
	Away      ExternalTeam
	GoalsHome *int
	GoalsAway *int
	Score     fixture.Score
}
