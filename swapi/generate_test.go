package swapi

import (
	"strings"
	"testing"

	"sqlrunner/sql"
)

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		column string
		want   string
	}{
		{"nil", nil, "name", "NULL"},
		{"unknown literal", "unknown", "name", "NULL"},
		{"n/a literal", "n/a", "name", "NULL"},
		{"none literal", "none", "name", "NULL"},
		{"plain string", "Tatooine", "name", "'Tatooine'"},
		{"embedded quote", "Jabba's Palace", "name", "'Jabba''s Palace'"},
		{"numeric with commas", "1,000,000", "population", "1000000"},
		{"numeric range lower bound", "30-165", "crew", "30"},
		{"numeric unknown", "unknown", "crew", "NULL"},
		{"numeric indefinite", "indefinite", "crew", "NULL"},
		{"numeric garbage", "several", "crew", "NULL"},
		{"numeric decimal", "34.37", "length", "34.37"},
		{"float integral", float64(4), "episode_id", "4"},
		{"float fractional", 1.5, "length", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeValue(tt.value, tt.column); got != tt.want {
				t.Errorf("sanitizeValue(%v, %q) = %q, want %q", tt.value, tt.column, got, tt.want)
			}
		})
	}
}

func TestSanitizeValueListAsJSON(t *testing.T) {
	got := sanitizeValue([]interface{}{"red", "blue"}, "colors")
	if got != `'["red","blue"]'` {
		t.Errorf("Expected JSON-encoded list, got %q", got)
	}
}

func TestCreateTableSQLPlanets(t *testing.T) {
	data := []Entity{
		{"name": "Tatooine", "climate": "arid", "diameter": "10465",
			"population": "200000", "url": "https://swapi.info/api/planets/1/",
			"residents": []interface{}{}, "films": []interface{}{}},
	}

	ddl := CreateTableSQL("planets", data)

	if !strings.HasPrefix(ddl, "CREATE TABLE planets (") {
		t.Fatalf("Unexpected DDL prefix: %q", ddl)
	}
	for _, want := range []string{
		"id INTEGER PRIMARY KEY",
		"diameter DECIMAL",
		"population BIGINT",
		"name VARCHAR(500)",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("Expected DDL to contain %q:\n%s", want, ddl)
		}
	}
	// Relationship fields stay out of the entity table.
	if strings.Contains(ddl, "residents") || strings.Contains(ddl, "films") {
		t.Errorf("Expected relationship fields excluded:\n%s", ddl)
	}
}

func TestCreateTableSQLCharacters(t *testing.T) {
	data := []Entity{
		{"name": "Luke Skywalker", "height": "172", "mass": "77",
			"homeworld": "https://swapi.info/api/planets/1/",
			"species":   []interface{}{}, "url": "https://swapi.info/api/people/1/"},
	}

	ddl := CreateTableSQL("people", data)

	if !strings.HasPrefix(ddl, "CREATE TABLE characters (") {
		t.Fatalf("Expected characters table, got:\n%s", ddl)
	}
	for _, want := range []string{
		"species_id INTEGER",
		"homeworld_id INTEGER",
		"FOREIGN KEY (homeworld_id) REFERENCES planets(id)",
		"FOREIGN KEY (species_id) REFERENCES species(id)",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("Expected DDL to contain %q:\n%s", want, ddl)
		}
	}
}

func TestInsertSQLCharacters(t *testing.T) {
	data := []Entity{
		{
			"name": "Luke Skywalker", "height": "172", "mass": "77",
			"birth_year": "19BBY", "eye_color": "blue", "gender": "male",
			"hair_color": "blond", "skin_color": "fair",
			"created": "2014-12-09", "edited": "2014-12-20",
			"url":       "https://swapi.info/api/people/1/",
			"homeworld": Entity{"id": 1, "name": "Tatooine"},
			"species":   []interface{}{Entity{"id": 2, "name": "Droid"}},
		},
	}

	inserts := InsertSQL("people", data)

	if !strings.Contains(inserts, "INSERT INTO characters (") {
		t.Fatalf("Expected characters insert:\n%s", inserts)
	}
	for _, want := range []string{"species_id", "homeworld_id", "'Luke Skywalker'"} {
		if !strings.Contains(inserts, want) {
			t.Errorf("Expected insert to contain %q:\n%s", want, inserts)
		}
	}
	// ID derived from the entity URL.
	if !strings.Contains(inserts, "(1, 2,") {
		t.Errorf("Expected id and species_id leading the values:\n%s", inserts)
	}
}

func TestJunctionSQL(t *testing.T) {
	dataset := Dataset{
		"films": []Entity{
			{"title": "A New Hope", "url": "https://swapi.info/api/films/1/",
				"characters": []interface{}{Entity{"id": 1, "name": "Luke Skywalker"}},
				"planets":    []interface{}{"https://swapi.info/api/planets/2/"}},
		},
		"people": []Entity{
			{"name": "Luke Skywalker", "url": "https://swapi.info/api/people/1/",
				"starships": []interface{}{Entity{"id": 12, "name": "X-wing"}}},
		},
	}

	sqlText := JunctionSQL(dataset)

	for _, want := range []string{
		"INSERT INTO film_characters (film_id, character_id) VALUES (1, 1);",
		"INSERT INTO film_planets (film_id, planet_id) VALUES (1, 2);",
		"INSERT INTO character_starships (character_id, starship_id) VALUES (1, 12);",
	} {
		if !strings.Contains(sqlText, want) {
			t.Errorf("Expected junction SQL to contain %q:\n%s", want, sqlText)
		}
	}
}

func TestGenerateScriptSplitsCleanly(t *testing.T) {
	dataset := Dataset{
		"films": []Entity{
			{"title": "A New Hope", "episode_id": float64(4),
				"opening_crawl": "It is a period of civil war;\nRebel spaceships...",
				"director":      "George Lucas", "producer": "Gary Kurtz",
				"release_date": "1977-05-25", "created": "2014", "edited": "2014",
				"url": "https://swapi.info/api/films/1/"},
		},
		"planets": []Entity{
			{"name": "Tatooine", "climate": "arid", "url": "https://swapi.info/api/planets/1/"},
		},
	}

	script := GenerateScript(dataset)
	statements := sql.Split(script)

	if len(statements) == 0 {
		t.Fatal("Expected statements from generated script")
	}

	// The semicolon inside the opening crawl must not split the insert.
	var filmInsert string
	for _, stmt := range statements {
		if strings.HasPrefix(stmt, "INSERT INTO films") {
			filmInsert = stmt
		}
	}
	if filmInsert == "" {
		t.Fatal("Expected a films insert statement")
	}
	if !strings.Contains(filmInsert, "civil war;") {
		t.Errorf("Expected semicolon preserved inside string literal:\n%s", filmInsert)
	}

	// Views come last.
	last := statements[len(statements)-1]
	if !strings.HasPrefix(last, "CREATE VIEW film_stats") {
		t.Errorf("Expected film_stats view last, got:\n%s", last)
	}
}

func TestGenerateScriptTableOrder(t *testing.T) {
	dataset := Dataset{
		"films":   []Entity{{"title": "A New Hope", "url": "https://swapi.info/api/films/1/"}},
		"planets": []Entity{{"name": "Tatooine", "url": "https://swapi.info/api/planets/1/"}},
		"people":  []Entity{{"name": "Luke Skywalker", "url": "https://swapi.info/api/people/1/"}},
		"species": []Entity{{"name": "Human", "url": "https://swapi.info/api/species/1/"}},
	}

	script := GenerateScript(dataset)

	// Referenced tables come before their dependents.
	planetsAt := strings.Index(script, "CREATE TABLE planets")
	speciesAt := strings.Index(script, "CREATE TABLE species")
	charactersAt := strings.Index(script, "CREATE TABLE characters")
	if planetsAt < 0 || speciesAt < 0 || charactersAt < 0 {
		t.Fatal("Expected all entity tables in script")
	}
	if !(planetsAt < speciesAt && speciesAt < charactersAt) {
		t.Error("Expected planets before species before characters")
	}
}
