package memory

import "github.com/riskibarqy/sports-data-service/internal/domain/league"

// API-Football league ids.
const (
	LeagueAPIIDPremierLeague int64 = 39
	LeagueAPIIDLaLiga        int64 = 140
	LeagueAPIIDLiga1         int64 = 274
)

// SeedLeagues lists the leagues a memory-backed process starts with. The
// daily league sync fills in the rest.
func SeedLeagues() []league.League {
	return []league.League{
		{APIID: LeagueAPIIDPremierLeague, Name: "Premier League", Type: "League", Country: "England"},
		{APIID: LeagueAPIIDLaLiga, Name: "La Liga", Type: "League", Country: "Spain"},
		{APIID: LeagueAPIIDLiga1, Name: "Liga 1", Type: "League", Country: "Indonesia"},
	}
}
