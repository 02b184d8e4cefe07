package apifootball

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

// Normalizer maps raw API-Football records onto the usecase's external
// shapes. Missing optional fields become zero values or nil pointers. A
// record that is not a JSON object, or whose known sub-objects carry another
// JSON type, is rejected as malformed. Identity checks are left to the
// reconciler.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) NormalizeLeague(raw usecase.RawRecord) (usecase.ExternalLeague, error) {
	root, err := decodeObject(raw)
	if err != nil {
		return usecase.ExternalLeague{}, err
	}

	var r nodeReader
	details := r.object(root, "league", "league")
	country := r.object(root, "country", "country")
	if r.err != nil {
		return usecase.ExternalLeague{}, r.err
	}
	return usecase.ExternalLeague{
		APIID:   getInt64(details, "id"),
		Name:    getString(details, "name"),
		Type:    getString(details, "type"),
		Country: firstNonEmpty(getString(country, "name"), getString(details, "country")),
		LogoURL: getString(details, "logo"),
	}, nil
}

func (n *Normalizer) NormalizeTeam(raw usecase.RawRecord) (usecase.ExternalTeam, error) {
	root, err := decodeObject(raw)
	if err != nil {
		return usecase.ExternalTeam{}, err
	}

	var r nodeReader
	details := r.object(root, "team", "team")
	if r.err != nil {
		return usecase.ExternalTeam{}, r.err
	}
	return usecase.ExternalTeam{
		APIID:    getInt64(details, "id"),
		Name:     getString(details, "name"),
		Code:     getString(details, "code"),
		Country:  getString(details, "country"),
		Founded:  getIntPtr(details, "founded"),
		National: getBoolPtr(details, "national"),
		LogoURL:  getString(details, "logo"),
	}, nil
}

func (n *Normalizer) NormalizeFixture(raw usecase.RawRecord) (usecase.ExternalFixture, error) {
	root, err := decodeObject(raw)
	if err != nil {
		return usecase.ExternalFixture{}, err
	}

	var r nodeReader
	details := r.object(root, "fixture", "fixture")
	status := r.object(details, "status", "fixture.status")
	venue := r.object(details, "venue", "fixture.venue")
	topVenue := r.object(root, "venue", "venue")
	leagueNode := r.object(root, "league", "league")
	teams := r.object(root, "teams", "teams")
	home := r.object(teams, "home", "teams.home")
	away := r.object(teams, "away", "teams.away")
	goals := r.object(root, "goals", "goals")
	score := r.object(root, "score", "score")
	halftime := r.object(score, "halftime", "score.halftime")
	fulltime := r.object(score, "fulltime", "score.fulltime")
	extratime := r.object(score, "extratime", "score.extratime")
	penalty := r.object(score, "penalty", "score.penalty")
	if r.err != nil {
		return usecase.ExternalFixture{}, r.err
	}
	if venue == nil {
		venue = topVenue
	}

	out := usecase.ExternalFixture{
		APIID:       getInt64(details, "id"),
		Referee:     getString(details, "referee"),
		Timezone:    getString(details, "timezone"),
		Timestamp:   getInt64(details, "timestamp"),
		Status:      getString(status, "long"),
		StatusShort: getString(status, "short"),
		Elapsed:     getIntPtr(status, "elapsed"),
		VenueAPIID:  getInt64Ptr(venue, "id"),
		VenueName:   getString(venue, "name"),
		VenueCity:   getString(venue, "city"),
		League: usecase.ExternalLeague{
			APIID:   getInt64(leagueNode, "id"),
			Name:    getString(leagueNode, "name"),
			Type:    getString(leagueNode, "type"),
			Country: getString(leagueNode, "country"),
			LogoURL: getString(leagueNode, "logo"),
		},
		Season: int(getInt64(leagueNode, "season")),
		Home:   teamRef(home),
		Away:   teamRef(away),
		Score: fixture.Score{
			Halftime:  scorePair(halftime),
			Fulltime:  scorePair(fulltime),
			Extratime: scorePair(extratime),
			Penalty:   scorePair(penalty),
		},
	}
	out.Date = kickoff(out.Timestamp, getString(details, "date"))

	out.GoalsHome = getIntPtr(goals, "home")
	out.GoalsAway = getIntPtr(goals, "away")
	if out.GoalsHome == nil && out.GoalsAway == nil {
		out.GoalsHome = out.Score.Fulltime.Home
		out.GoalsAway = out.Score.Fulltime.Away
	}
	return out, nil
}

func teamRef(node map[string]any) usecase.ExternalTeam {
	return usecase.ExternalTeam{
		APIID:   getInt64(node, "id"),
		Name:    getString(node, "name"),
		LogoURL: getString(node, "logo"),
	}
}

func scorePair(node map[string]any) fixture.ScorePair {
	return fixture.ScorePair{
		Home: getIntPtr(node, "home"),
		Away: getIntPtr(node, "away"),
	}
}

// kickoff prefers the unix timestamp and falls back to the ISO date.
func kickoff(timestamp int64, raw string) time.Time {
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	if raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed.UTC()
			}
		}
	}
	return time.Time{}
}

// nodeReader walks nested objects and keeps the first type mismatch.
type nodeReader struct {
	err error
}

// object returns src[key] as an object. Absent keys and JSON null yield nil;
// any other non-object value is recorded as malformed.
func (r *nodeReader) object(src map[string]any, key, path string) map[string]any {
	if r.err != nil || src == nil {
		return nil
	}
	value, ok := src[key]
	if !ok || value == nil {
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		r.err = fmt.Errorf("%w: %s is %s, want object", usecase.ErrMalformedRecord, path, jsonKind(value))
		return nil
	}
	return obj
}

func jsonKind(value any) string {
	switch value.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func decodeObject(raw usecase.RawRecord) (map[string]any, error) {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode record: %v", usecase.ErrMalformedRecord, err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: record is %T, want object", usecase.ErrMalformedRecord, decoded)
	}
	return obj, nil
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch typed := src[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

func getInt64Ptr(src map[string]any, key string) *int64 {
	if src == nil {
		return nil
	}
	switch typed := src[key].(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return nil
		}
		v := int64(typed)
		return &v
	case int64:
		return &typed
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

func getInt64(src map[string]any, key string) int64 {
	if v := getInt64Ptr(src, key); v != nil {
		return *v
	}
	return 0
}

func getIntPtr(src map[string]any, key string) *int {
	v := getInt64Ptr(src, key)
	if v == nil {
		return nil
	}
	out := int(*v)
	return &out
}

func getBoolPtr(src map[string]any, key string) *bool {
	if src == nil {
		return nil
	}
	switch typed := src[key].(type) {
	case bool:
		return &typed
	case string:
		v, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if item != "" {
			return item
		}
	}
	return ""
}
