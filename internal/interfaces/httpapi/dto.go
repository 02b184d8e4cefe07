package httpapi

import (
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

type leagueDTO struct {
	ID      int64  `json:"id"`
	APIID   int64  `json:"apiId"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Country string `json:"country"`
	LogoURL string `json:"logoUrl"`
}

type teamDTO struct {
	ID       int64  `json:"id"`
	APIID    int64  `json:"apiId"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Country  string `json:"country,omitempty"`
	Founded  *int   `json:"founded,omitempty"`
	National *bool  `json:"national,omitempty"`
	LogoURL  string `json:"logoUrl"`
}

type fixtureDTO struct {
	ID                 int64  `json:"id"`
	APIID              int64  `json:"apiId"`
	Date               string `json:"date"`
	Timezone           string `json:"timezone"`
	Timestamp          int64  `json:"timestamp"`
	Season             int    `json:"season"`
	Status             string `json:"status"`
	StatusShort        string `json:"statusShort"`
	Elapsed            *int   `json:"elapsed"`
	LeagueID           int64  `json:"leagueId"`
	LeagueName         string `json:"leagueName"`
	LeagueLogoURL      string `json:"leagueLogoUrl"`
	HomeTeamID         int64  `json:"homeTeamId"`
	HomeTeamName       string `json:"homeTeamName"`
	HomeTeamLogoURL    string `json:"homeTeamLogoUrl"`
	AwayTeamID         int64  `json:"awayTeamId"`
	AwayTeamName       string `json:"awayTeamName"`
	AwayTeamLogoURL    string `json:"awayTeamLogoUrl"`
	HomeGoals          *int   `json:"homeGoals"`
	AwayGoals          *int   `json:"awayGoals"`
	HomeHalfTimeGoals  *int   `json:"homeHalfTimeGoals"`
	AwayHalfTimeGoals  *int   `json:"awayHalfTimeGoals"`
	HomeFullTimeGoals  *int   `json:"homeFullTimeGoals"`
	AwayFullTimeGoals  *int   `json:"awayFullTimeGoals"`
	HomeExtraTimeGoals *int   `json:"homeExtraTimeGoals"`
	AwayExtraTimeGoals *int   `json:"awayExtraTimeGoals"`
	HomePenaltyGoals   *int   `json:"homePenaltyGoals"`
	AwayPenaltyGoals   *int   `json:"awayPenaltyGoals"`
	VenueName          string `json:"venueName,omitempty"`
	VenueCity          string `json:"venueCity,omitempty"`
	Referee            string `json:"referee,omitempty"`
}

type triggerAcceptedDTO struct {
	RunID  string `json:"run_id"`
	Job    string `json:"job"`
	Status string `json:"status"`
}

type runDTO struct {
	ID           string         `json:"run_id"`
	Job          string         `json:"job"`
	Source       string         `json:"source"`
	Status       string         `json:"status"`
	Params       map[string]any `json:"params,omitempty"`
	Passes       int            `json:"passes"`
	Attempted    int            `json:"attempted"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	ErrorMessage string         `json:"error_message,omitempty"`
	TraceID      string         `json:"trace_id,omitempty"`
	StartedAt    string         `json:"started_at"`
	FinishedAt   string         `json:"finished_at,omitempty"`
}

func leagueToDTO(item league.League) leagueDTO {
	return leagueDTO{
		ID:      item.ID,
		APIID:   item.APIID,
		Name:    item.Name,
		Type:    item.Type,
		Country: item.Country,
		LogoURL: item.LogoURL,
	}
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{
		ID:       item.ID,
		APIID:    item.APIID,
		Name:     item.Name,
		Code:     item.Code,
		Country:  item.Country,
		Founded:  item.Founded,
		National: item.National,
		LogoURL:  item.LogoURL,
	}
}

func fixtureToDTO(view usecase.FixtureView) fixtureDTO {
	f := view.Fixture
	return fixtureDTO{
		ID:                 f.ID,
		APIID:              f.APIID,
		Date:               f.Date.UTC().Format(time.RFC3339),
		Timezone:           f.Timezone,
		Timestamp:          f.Timestamp,
		Season:             f.Season,
		Status:             f.Status,
		StatusShort:        f.StatusShort,
		Elapsed:            f.Elapsed,
		LeagueID:           f.LeagueID,
		LeagueName:         view.League.Name,
		LeagueLogoURL:      view.League.LogoURL,
		HomeTeamID:         f.HomeTeamID,
		HomeTeamName:       view.HomeTeam.Name,
		HomeTeamLogoURL:    view.HomeTeam.LogoURL,
		AwayTeamID:         f.AwayTeamID,
		AwayTeamName:       view.AwayTeam.Name,
		AwayTeamLogoURL:    view.AwayTeam.LogoURL,
		HomeGoals:          f.GoalsHome,
		AwayGoals:          f.GoalsAway,
		HomeHalfTimeGoals:  f.Score.Halftime.Home,
		AwayHalfTimeGoals:  f.Score.Halftime.Away,
		HomeFullTimeGoals:  f.Score.Fulltime.Home,
		AwayFullTimeGoals:  f.Score.Fulltime.Away,
		HomeExtraTimeGoals: f.Score.Extratime.Home,
		AwayExtraTimeGoals: f.Score.Extratime.Away,
		HomePenaltyGoals:   f.Score.Penalty.Home,
		AwayPenaltyGoals:   f.Score.Penalty.Away,
		VenueName:          f.VenueName,
		VenueCity:          f.VenueCity,
		Referee:            f.Referee,
	}
}

func runToDTO(run ingestionrun.Run) runDTO {
	out := runDTO{
		ID:           run.ID,
		Job:          run.JobName,
		Source:       string(run.Source),
		Status:       string(run.Status),
		Params:       run.Params,
		Passes:       run.Passes,
		Attempted:    run.Attempted,
		Succeeded:    run.Succeeded,
		Failed:       run.Failed,
		ErrorMessage: run.ErrorMessage,
		TraceID:      run.TraceID,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		out.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out
}
