package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("leagues").
		Where(Eq("country", "England"), nil, IsNull("logo_url")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM leagues WHERE country = $1 AND logo_url IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "England" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("leagues").
		Columns("api_id", "name").
		Values(int64(39), "Premier League").
		Suffix(OnConflictIgnore("api_id")).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO leagues (api_id, name) VALUES ($1, $2) ON CONFLICT (api_id) DO NOTHING RETURNING *"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(39) || args[1] != "Premier League" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRejectsMismatchedValues(t *testing.T) {
	_, _, err := InsertInto("leagues").Columns("api_id", "name").Values(int64(39)).ToSQL()
	if err == nil {
		t.Fatalf("expected error for column/value mismatch")
	}
}

func TestOnConflictUpdate(t *testing.T) {
	got := OnConflictUpdate("api_id", []string{"name", "logo_url"}, "updated_at = NOW()")
	want := "ON CONFLICT (api_id) DO UPDATE SET name = EXCLUDED.name, logo_url = EXCLUDED.logo_url, updated_at = NOW() RETURNING *"
	if got != want {
		t.Fatalf("unexpected suffix:\nwant: %s\ngot:  %s", want, got)
	}
}

func TestSelectBuilderHalfOpenRange(t *testing.T) {
	query, args, err := Select("*").
		From("fixtures").
		Where(Gte("kickoff_at", "2024-08-16"), Lt("kickoff_at", "2024-08-17"), In("status", []any{"1H", "HT"})).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM fixtures WHERE kickoff_at >= $1 AND kickoff_at < $2 AND status IN ($3, $4) ORDER BY kickoff_at, id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "2024-08-16" || args[3] != "HT" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("fixtures").Where(In("status", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM fixtures WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		APIID   int64  `db:"api_id"`
		Name    string `db:"name"`
		Founded *int   `db:"founded"`
		Ignored string `db:"-"`
		Untag   string
	}

	query, args, err := InsertModel("teams", row{APIID: 33, Name: "Manchester United"}, "ON CONFLICT (api_id) DO NOTHING RETURNING *")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO teams (api_id, name, founded) VALUES ($1, $2, $3) ON CONFLICT (api_id) DO NOTHING RETURNING *"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(33) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("teams", (*row)(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
