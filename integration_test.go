package sqlrunner_test

import (
	"strings"
	"testing"

	"sqlrunner"
	"sqlrunner/datagen"
	"sqlrunner/sql"
	"sqlrunner/swapi"
)

// The generated dataset scripts must survive the statement splitter
// intact: every statement classified, no comment or quoted semicolon
// leaking into a neighbor.
func TestGeneratedScriptsSplitCleanly(t *testing.T) {
	tpch := datagen.New(42).Script(datagen.DefaultConfig())
	statements := sqlrunner.Split(tpch)
	if len(statements) != 6 {
		t.Fatalf("Expected 6 dataset statements, got %d", len(statements))
	}
	for i, stmt := range statements {
		if sql.Classify(stmt) != sql.KindDML {
			t.Errorf("Statement %d: expected DML, got %v", i, sql.Classify(stmt))
		}
	}
}

func TestStarWarsScriptPipeline(t *testing.T) {
	dataset := swapi.Dataset{
		"films": []swapi.Entity{
			{"title": "The Empire Strikes Back", "episode_id": float64(5),
				"opening_crawl": "It is a dark time for the Rebellion;\nthe Empire pursues them.",
				"director":      "Irvin Kershner", "producer": "Gary Kurtz",
				"release_date": "1980-05-17",
				"url":          "https://swapi.info/api/films/2/",
				"characters":   []interface{}{"https://swapi.info/api/people/1/"}},
		},
		"people": []swapi.Entity{
			{"name": "Luke Skywalker", "height": "172",
				"homeworld": "https://swapi.info/api/planets/1/",
				"url":       "https://swapi.info/api/people/1/"},
		},
		"planets": []swapi.Entity{
			{"name": "Tatooine", "climate": "arid",
				"url": "https://swapi.info/api/planets/1/"},
		},
	}

	resolved := swapi.ResolveAll(dataset)
	script := swapi.GenerateScript(resolved)
	statements := sqlrunner.Split(script)

	var creates, inserts, views int
	for _, stmt := range statements {
		switch {
		case strings.HasPrefix(stmt, "CREATE VIEW"):
			views++
		case strings.HasPrefix(stmt, "CREATE TABLE"):
			creates++
		case strings.HasPrefix(stmt, "INSERT INTO"):
			inserts++
		default:
			t.Errorf("Unexpected statement shape: %q", stmt[:40])
		}
	}

	// 3 entity tables + 9 junction tables.
	if creates != 12 {
		t.Errorf("Expected 12 CREATE TABLE statements, got %d", creates)
	}
	if inserts == 0 {
		t.Error("Expected insert statements")
	}
	if views != 2 {
		t.Errorf("Expected 2 views, got %d", views)
	}

	// The semicolon in the opening crawl must stay inside its insert.
	found := false
	for _, stmt := range statements {
		if strings.Contains(stmt, "Rebellion;") {
			found = true
			if !strings.HasPrefix(stmt, "INSERT INTO films") {
				t.Errorf("Crawl text ended up in wrong statement: %q", stmt[:40])
			}
		}
	}
	if !found {
		t.Error("Expected opening crawl text in the films insert")
	}
}
