package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("season_id", int64(3)), Expr("lower(name) = lower(?)", "Triple Tops")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE season_id = $1 AND lower(name) = lower($2) ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(3) || args[1] != "Triple Tops" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("name", "guid").
		Values("Alice", "p-1").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (name, guid) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Alice" || args[1] != "p-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		SetExpr("home_score", "COALESCE(?, home_score)", 5).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(-42))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET home_score = COALESCE($1, home_score), updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 5 || args[1] != int64(-42) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		SeasonID int64  `db:"season_id"`
		Name     string `db:"name"`
		Captain  string `db:"captain"`
		Venue    string `db:"venue_name"`
		internal string
	}

	query, args, err := UpsertModel("teams", row{SeasonID: 7, Name: "Bullseyes", Captain: "Ann", Venue: "Pub"}, []string{"season_id", "name"}, "venue_name")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (season_id, name, captain, venue_name) VALUES ($1, $2, $3, $4) ON CONFLICT (season_id, name) DO UPDATE SET captain = EXCLUDED.captain"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != int64(7) || args[3] != "Pub" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel_AllKeysDoNothing(t *testing.T) {
	type row struct {
		Name string `db:"name"`
	}

	query, _, err := UpsertModel("players", row{Name: "Ann"}, []string{"name"})
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}
	if query != "INSERT INTO players (name) VALUES ($1) ON CONFLICT (name) DO NOTHING" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestUpsertModel_RequiresConflictColumns(t *testing.T) {
	type row struct {
		Name string `db:"name"`
	}
	if _, _, err := UpsertModel("players", row{Name: "Ann"}, nil); err == nil {
		t.Fatalf("expected error without conflict columns")
	}
}

type statBlock struct {
	Wins int     `db:"wins"`
	MPR  float64 `db:"mpr"`
}

func TestInsertModel_FlattensEmbeddedStruct(t *testing.T) {
	type row struct {
		PlayerID int64 `db:"player_id"`
		statBlock
	}

	query, args, err := InsertModel("player_season_stats", row{PlayerID: 3, statBlock: statBlock{Wins: 2, MPR: 2.5}}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}
	if query != "INSERT INTO player_season_stats (player_id, wins, mpr) VALUES ($1, $2, $3)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 3 || args[1] != 2 || args[2] != 2.5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
