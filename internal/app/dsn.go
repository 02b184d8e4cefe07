package app

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// connTarget is the resolved postgres connection string plus the database
// name reported on spans and startup logs.
type connTarget struct {
	dsn    string
	dbName string
}

// resolveConnTarget accepts both URL ("postgres://...") and keyword
// ("host=... dbname=...") connection strings. With textResults set, URL
// strings gain disable_prepared_binary_result=yes unless the caller
// already chose a value, which keeps pgbouncer in transaction mode usable.
func resolveConnTarget(raw string, textResults bool) connTarget {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return connTarget{dsn: raw, dbName: keywordDBName(raw)}
	}

	if textResults {
		query := parsed.Query()
		if !query.Has("disable_prepared_binary_result") {
			query.Set("disable_prepared_binary_result", "yes")
			parsed.RawQuery = query.Encode()
		}
	}

	return connTarget{
		dsn:    parsed.String(),
		dbName: strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")),
	}
}

func keywordDBName(raw string) string {
	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

const maxSpanQueryBytes = 512

// spanQuery collapses whitespace so multi-line upserts read as one line in
// traces, and caps the result on a rune boundary.
func spanQuery(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) <= maxSpanQueryBytes {
		return flat
	}

	cut := maxSpanQueryBytes
	for cut > 0 && !utf8.RuneStart(flat[cut]) {
		cut--
	}
	return flat[:cut] + "..."
}
