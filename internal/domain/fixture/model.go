package fixture

import (
	"fmt"
	"strings"
	"time"
)

// Long status labels as reported by the source.
const (
	StatusNotStarted    = "Not Started"
	StatusLive          = "Live"
	StatusFirstHalf     = "First Half"
	StatusHalftime      = "Halftime"
	StatusSecondHalf    = "Second Half"
	StatusExtraTime     = "Extra Time"
	StatusBreakTime     = "Break Time"
	StatusPenalties     = "Penalty In Progress"
	StatusSuspended     = "Match Suspended"
	StatusInterrupted   = "Match Interrupted"
	StatusMatchFinished = "Match Finished"
)

var liveStatuses = []string{
	StatusLive,
	StatusFirstHalf,
	StatusHalftime,
	StatusSecondHalf,
	StatusExtraTime,
	StatusBreakTime,
	StatusPenalties,
	StatusSuspended,
	StatusInterrupted,
}

var liveShortCodes = map[string]struct{}{
	"LIVE": {}, "1H": {}, "HT": {}, "2H": {}, "ET": {}, "BT": {}, "P": {}, "SUSP": {}, "INT": {},
}

// ScorePair holds one phase of the score. Either side may be unknown.
type ScorePair struct {
	Home *int
	Away *int
}

type Score struct {
	Halftime  ScorePair
	Fulltime  ScorePair
	Extratime ScorePair
	Penalty   ScorePair
}

// Fixture is one match. APIID, LeagueID, HomeTeamID and AwayTeamID are
// identity fields and are written once; everything else tracks the latest
// source snapshot.
type Fixture struct {
	ID          int64
	APIID       int64
	LeagueID    int64
	Season      int
	HomeTeamID  int64
	AwayTeamID  int64
	Date        time.Time
	Timezone    string
	Timestamp   int64
	Status      string
	StatusShort string
	Elapsed     *int
	GoalsHome   *int
	GoalsAway   *int
	Score       Score
	VenueAPIID  *int64
	VenueName   string
	VenueCity   string
	Referee     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (f Fixture) Validate() error {
	if f.APIID <= 0 {
		return fmt.Errorf("fixture api id is required")
	}
	if f.LeagueID <= 0 {
		return fmt.Errorf("fixture league reference is required")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture team references are required")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture home and away team must differ")
	}

	return nil
}

// LiveStatuses returns the long labels that count as in play.
func LiveStatuses() []string {
	out := make([]string, len(liveStatuses))
	copy(out, liveStatuses)
	return out
}

// IsLiveStatus reports whether a long label or a short code means the match
// is in play.
func IsLiveStatus(status string) bool {
	value := strings.TrimSpace(status)
	if value == "" {
		return false
	}
	for _, candidate := range liveStatuses {
		if strings.EqualFold(candidate, value) {
			return true
		}
	}
	_, ok := liveShortCodes[strings.ToUpper(value)]
	return ok
}
