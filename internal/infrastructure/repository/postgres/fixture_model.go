package postgres

import (
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID               int64     `db:"id"`
	APIID            int64     `db:"api_id"`
	LeagueID         int64     `db:"league_id"`
	Season           int       `db:"season"`
	HomeTeamID       int64     `db:"home_team_id"`
	AwayTeamID       int64     `db:"away_team_id"`
	KickoffAt        time.Time `db:"kickoff_at"`
	Timezone         string    `db:"timezone"`
	KickoffTimestamp int64     `db:"kickoff_timestamp"`
	Status           string    `db:"status"`
	StatusShort      string    `db:"status_short"`
	Elapsed          *int      `db:"elapsed"`
	GoalsHome        *int      `db:"goals_home"`
	GoalsAway        *int      `db:"goals_away"`
	HalftimeHome     *int      `db:"score_halftime_home"`
	HalftimeAway     *int      `db:"score_halftime_away"`
	FulltimeHome     *int      `db:"score_fulltime_home"`
	FulltimeAway     *int      `db:"score_fulltime_away"`
	ExtratimeHome    *int      `db:"score_extratime_home"`
	ExtratimeAway    *int      `db:"score_extratime_away"`
	PenaltyHome      *int      `db:"score_penalty_home"`
	PenaltyAway      *int      `db:"score_penalty_away"`
	VenueAPIID       *int64    `db:"venue_api_id"`
	VenueName        *string   `db:"venue_name"`
	VenueCity        *string   `db:"venue_city"`
	Referee          *string   `db:"referee"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type fixtureInsertModel struct {
	APIID            int64     `db:"api_id"`
	LeagueID         int64     `db:"league_id"`
	Season           int       `db:"season"`
	HomeTeamID       int64     `db:"home_team_id"`
	AwayTeamID       int64     `db:"away_team_id"`
	KickoffAt        time.Time `db:"kickoff_at"`
	Timezone         string    `db:"timezone"`
	KickoffTimestamp int64     `db:"kickoff_timestamp"`
	Status           string    `db:"status"`
	StatusShort      string    `db:"status_short"`
	Elapsed          *int      `db:"elapsed"`
	GoalsHome        *int      `db:"goals_home"`
	GoalsAway        *int      `db:"goals_away"`
	HalftimeHome     *int      `db:"score_halftime_home"`
	HalftimeAway     *int      `db:"score_halftime_away"`
	FulltimeHome     *int      `db:"score_fulltime_home"`
	FulltimeAway     *int      `db:"score_fulltime_away"`
	ExtratimeHome    *int      `db:"score_extratime_home"`
	ExtratimeAway    *int      `db:"score_extratime_away"`
	PenaltyHome      *int      `db:"score_penalty_home"`
	PenaltyAway      *int      `db:"score_penalty_away"`
	VenueAPIID       *int64    `db:"venue_api_id"`
	VenueName        *string   `db:"venue_name"`
	VenueCity        *string   `db:"venue_city"`
	Referee          *string   `db:"referee"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:          m.ID,
		APIID:       m.APIID,
		LeagueID:    m.LeagueID,
		Season:      m.Season,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		Date:        m.KickoffAt.UTC(),
		Timezone:    m.Timezone,
		Timestamp:   m.KickoffTimestamp,
		Status:      m.Status,
		StatusShort: m.StatusShort,
		Elapsed:     m.Elapsed,
		GoalsHome:   m.GoalsHome,
		GoalsAway:   m.GoalsAway,
		Score: fixture.Score{
			Halftime:  fixture.ScorePair{Home: m.HalftimeHome, Away: m.HalftimeAway},
			Fulltime:  fixture.ScorePair{Home: m.FulltimeHome, Away: m.FulltimeAway},
			Extratime: fixture.ScorePair{Home: m.ExtratimeHome, Away: m.ExtratimeAway},
			Penalty:   fixture.ScorePair{Home: m.PenaltyHome, Away: m.PenaltyAway},
		},
		VenueAPIID: m.VenueAPIID,
		VenueName:  stringValue(m.VenueName),
		VenueCity:  stringValue(m.VenueCity),
		Referee:    stringValue(m.Referee),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func newFixtureInsertModel(item fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		APIID:            item.APIID,
		LeagueID:         item.LeagueID,
		Season:           item.Season,
		HomeTeamID:       item.HomeTeamID,
		AwayTeamID:       item.AwayTeamID,
		KickoffAt:        item.Date.UTC(),
		Timezone:         item.Timezone,
		KickoffTimestamp: item.Timestamp,
		Status:           item.Status,
		StatusShort:      item.StatusShort,
		Elapsed:          item.Elapsed,
		GoalsHome:        item.GoalsHome,
		GoalsAway:        item.GoalsAway,
		HalftimeHome:     item.Score.Halftime.Home,
		HalftimeAway:     item.Score.Halftime.Away,
		FulltimeHome:     item.Score.Fulltime.Home,
		FulltimeAway:     item.Score.Fulltime.Away,
		ExtratimeHome:    item.Score.Extratime.Home,
		ExtratimeAway:    item.Score.Extratime.Away,
		PenaltyHome:      item.Score.Penalty.Home,
		PenaltyAway:      item.Score.Penalty.Away,
		VenueAPIID:       item.VenueAPIID,
		VenueName:        optionalString(item.VenueName),
		VenueCity:        optionalString(item.VenueCity),
		Referee:          optionalString(item.Referee),
	}
}
