package swapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// tableFor maps a dataset category to its table name. The people
// category loads into the characters table.
func tableFor(category string) string {
	if category == "people" {
		return "characters"
	}
	return category
}

// tableOrder is the schema creation order; foreign keys point backwards.
var tableOrder = []string{"films", "planets", "species", "people", "vehicles", "starships"}

// manyToMany lists relationship fields excluded from entity tables and
// loaded through junction tables instead.
var manyToMany = map[string]bool{
	"films": true, "characters": true, "planets": true, "species": true,
	"vehicles": true, "starships": true, "pilots": true, "residents": true,
	"people": true,
}

// numericColumns are string-typed in the source data but numeric in the
// schema. Their values get coerced during sanitization.
var numericColumns = map[string]bool{
	"cost_in_credits": true, "cargo_capacity": true, "length": true,
	"hyperdrive_rating": true, "diameter": true, "rotation_period": true,
	"orbital_period": true, "surface_water": true, "crew": true,
	"passengers": true, "max_atmosphering_speed": true, "MGLT": true,
	"population": true, "episode_id": true,
}

// insertColumns fixes the column order per table so generated scripts
// are stable across runs.
var insertColumns = map[string][]string{
	"films":      {"id", "created", "director", "edited", "episode_id", "opening_crawl", "producer", "release_date", "title", "url"},
	"planets":    {"id", "climate", "created", "diameter", "edited", "gravity", "name", "orbital_period", "population", "rotation_period", "surface_water", "terrain", "url"},
	"species":    {"id", "average_height", "average_lifespan", "classification", "created", "designation", "edited", "eye_colors", "hair_colors", "homeworld_id", "language", "name", "skin_colors", "url"},
	"characters": {"id", "species_id", "birth_year", "created", "edited", "eye_color", "gender", "hair_color", "height", "homeworld_id", "mass", "name", "skin_color", "url"},
	"vehicles":   {"id", "cargo_capacity", "consumables", "cost_in_credits", "created", "crew", "edited", "length", "manufacturer", "max_atmosphering_speed", "model", "name", "passengers", "url", "vehicle_class"},
	"starships":  {"id", "MGLT", "cargo_capacity", "consumables", "cost_in_credits", "created", "crew", "edited", "hyperdrive_rating", "length", "manufacturer", "max_atmosphering_speed", "model", "name", "passengers", "starship_class", "url"},
}

// entityID returns an entity's numeric ID, from its id field when
// present or derived from its url otherwise.
func entityID(e Entity) int {
	switch id := e["id"].(type) {
	case float64:
		return int(id)
	case int:
		return id
	}
	if url, ok := e["url"].(string); ok {
		return ExtractID(url)
	}
	return 0
}

// refID extracts an ID from either a resolved {id, name} object or a
// raw URL string.
func refID(item interface{}) int {
	switch v := item.(type) {
	case map[string]interface{}:
		if id, ok := v["id"].(float64); ok {
			return int(id)
		}
		if id, ok := v["id"].(int); ok {
			return id
		}
	case Entity:
		return refID(map[string]interface{}(v))
	case string:
		return ExtractID(v)
	}
	return 0
}

// nullLiterals are source values that mean "no data".
func isNullLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "unknown", "n/a", "none", "indefinite":
		return true
	}
	return false
}

// sanitizeValue renders a source value as a SQL literal. Numeric
// columns get coerced (commas stripped, ranges reduced to their lower
// bound); anything unparseable becomes NULL.
func sanitizeValue(value interface{}, column string) string {
	switch v := value.(type) {
	case nil:
		return "NULL"

	case string:
		if isNullLiteral(v) {
			return "NULL"
		}
		if numericColumns[column] {
			clean := strings.TrimSpace(strings.SplitN(strings.ReplaceAll(v, ",", ""), "-", 2)[0])
			if isNullLiteral(clean) {
				return "NULL"
			}
			if _, err := strconv.ParseFloat(clean, 64); err != nil {
				return "NULL"
			}
			return clean
		}
		return quoteString(v)

	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)

	case int:
		return strconv.Itoa(v)

	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"

	default:
		// Lists and objects are stored as JSON text.
		data, err := json.Marshal(v)
		if err != nil {
			return quoteString(fmt.Sprintf("%v", v))
		}
		return quoteString(string(data))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// columnType infers a schema type for a column from its sample values.
func columnType(column string, samples []interface{}) string {
	for _, s := range samples {
		switch s.(type) {
		case []interface{}, map[string]interface{}:
			return "TEXT" // stored as JSON
		}
	}

	switch column {
	case "cost_in_credits", "cargo_capacity", "population":
		return "BIGINT"
	case "length", "hyperdrive_rating", "diameter", "rotation_period", "orbital_period", "surface_water":
		return "DECIMAL"
	case "crew", "passengers", "max_atmosphering_speed", "MGLT", "episode_id":
		return "INTEGER"
	}
	return "VARCHAR(500)"
}

// CreateTableSQL builds a CREATE TABLE statement for one category,
// inferring columns from the first few records.
func CreateTableSQL(category string, data []Entity) string {
	table := tableFor(category)

	sampleCount := len(data)
	if sampleCount > 5 {
		sampleCount = 5
	}

	columnSet := make(map[string]bool)
	for _, e := range data[:sampleCount] {
		for key := range e {
			if key == "id" || manyToMany[key] {
				continue
			}
			columnSet[key] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for c := range columnSet {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table)
	b.WriteString("    id INTEGER PRIMARY KEY,\n")

	if table == "characters" {
		b.WriteString("    species_id INTEGER,\n")
	}

	for _, column := range columns {
		if column == "homeworld" {
			b.WriteString("    homeworld_id INTEGER,\n")
			continue
		}

		samples := make([]interface{}, 0, sampleCount)
		for _, e := range data[:sampleCount] {
			if v, ok := e[column]; ok {
				samples = append(samples, v)
			}
		}
		fmt.Fprintf(&b, "    %s %s,\n", column, columnType(column, samples))
	}

	switch table {
	case "characters":
		b.WriteString("    FOREIGN KEY (homeworld_id) REFERENCES planets(id),\n")
		b.WriteString("    FOREIGN KEY (species_id) REFERENCES species(id)\n")
	case "species":
		b.WriteString("    FOREIGN KEY (homeworld_id) REFERENCES planets(id)\n")
	default:
		// Trim the trailing comma from the last column.
		body := strings.TrimSuffix(b.String(), ",\n") + "\n"
		b.Reset()
		b.WriteString(body)
	}

	b.WriteString(");\n")
	return b.String()
}

// InsertSQL builds the INSERT statements for one category.
func InsertSQL(category string, data []Entity) string {
	if len(data) == 0 {
		return ""
	}
	table := tableFor(category)

	order, ok := insertColumns[table]
	if !ok {
		keys := make([]string, 0)
		for key := range data[0] {
			if key != "id" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		order = append([]string{"id"}, keys...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Insert data into %s\n", table)

	for _, item := range data {
		columns := make([]string, 0, len(order))
		values := make([]string, 0, len(order))

		for _, col := range order {
			switch {
			case manyToMany[col] && !(col == "species" && table != "characters"):
				continue

			case col == "id":
				id := entityID(item)
				if id == 0 {
					continue
				}
				columns = append(columns, "id")
				values = append(values, strconv.Itoa(id))

			case col == "homeworld_id":
				if id := refID(item["homeworld"]); id != 0 {
					columns = append(columns, "homeworld_id")
					values = append(values, strconv.Itoa(id))
				}

			case col == "species_id" && table == "characters":
				if list, ok := item["species"].([]interface{}); ok && len(list) > 0 {
					// Take the first species; characters rarely have more.
					if id := refID(list[0]); id != 0 {
						columns = append(columns, "species_id")
						values = append(values, strconv.Itoa(id))
					}
				}

			default:
				if v, ok := item[col]; ok {
					columns = append(columns, col)
					values = append(values, sanitizeValue(v, col))
				}
			}
		}

		if len(columns) > 0 {
			fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s);\n",
				table, strings.Join(columns, ", "), strings.Join(values, ", "))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// junctionDDL creates the many-to-many relationship tables.
const junctionDDL = `-- JUNCTION TABLES FOR RELATIONSHIPS

CREATE TABLE film_characters (
    film_id INTEGER,
    character_id INTEGER,
    PRIMARY KEY (film_id, character_id)
);

CREATE TABLE film_planets (
    film_id INTEGER,
    planet_id INTEGER,
    PRIMARY KEY (film_id, planet_id)
);

CREATE TABLE film_starships (
    film_id INTEGER,
    starship_id INTEGER,
    PRIMARY KEY (film_id, starship_id)
);

CREATE TABLE film_vehicles (
    film_id INTEGER,
    vehicle_id INTEGER,
    PRIMARY KEY (film_id, vehicle_id)
);

CREATE TABLE film_species (
    film_id INTEGER,
    species_id INTEGER,
    PRIMARY KEY (film_id, species_id)
);

CREATE TABLE character_vehicles (
    character_id INTEGER,
    vehicle_id INTEGER,
    PRIMARY KEY (character_id, vehicle_id)
);

CREATE TABLE character_starships (
    character_id INTEGER,
    starship_id INTEGER,
    PRIMARY KEY (character_id, starship_id)
);

CREATE TABLE vehicle_pilots (
    vehicle_id INTEGER,
    character_id INTEGER,
    PRIMARY KEY (vehicle_id, character_id)
);

CREATE TABLE starship_pilots (
    starship_id INTEGER,
    character_id INTEGER,
    PRIMARY KEY (starship_id, character_id)
);

`

// viewsDDL defines reporting views over the loaded data.
const viewsDDL = `-- USEFUL VIEWS

CREATE VIEW expensive_starships AS
SELECT
    name,
    model,
    starship_class,
    cost_in_credits,
    manufacturer
FROM starships
WHERE cost_in_credits IS NOT NULL
  AND CAST(cost_in_credits AS BIGINT) > 1000000
ORDER BY CAST(cost_in_credits AS BIGINT) DESC;

CREATE VIEW film_stats AS
SELECT
    title,
    episode_id,
    release_date,
    director,
    producer,
    LENGTH(opening_crawl) AS opening_crawl_length
FROM films
ORDER BY episode_id;
`

// junctionRow emits one junction insert when the reference resolves.
func junctionRow(b *strings.Builder, table, leftCol, rightCol string, leftID int, item interface{}) {
	if id := refID(item); id != 0 {
		fmt.Fprintf(b, "INSERT INTO %s (%s, %s) VALUES (%d, %d);\n", table, leftCol, rightCol, leftID, id)
	}
}

// JunctionSQL builds the INSERT statements for every junction table.
func JunctionSQL(dataset Dataset) string {
	var b strings.Builder
	b.WriteString("-- JUNCTION TABLE DATA\n\n")

	for _, film := range dataset["films"] {
		id := entityID(film)
		if id == 0 {
			continue
		}
		relations := []struct {
			field, table, column string
		}{
			{"characters", "film_characters", "character_id"},
			{"planets", "film_planets", "planet_id"},
			{"starships", "film_starships", "starship_id"},
			{"vehicles", "film_vehicles", "vehicle_id"},
			{"species", "film_species", "species_id"},
		}
		for _, rel := range relations {
			if list, ok := film[rel.field].([]interface{}); ok {
				for _, item := range list {
					junctionRow(&b, rel.table, "film_id", rel.column, id, item)
				}
			}
		}
	}

	for _, character := range dataset["people"] {
		id := entityID(character)
		if id == 0 {
			continue
		}
		if list, ok := character["vehicles"].([]interface{}); ok {
			for _, item := range list {
				junctionRow(&b, "character_vehicles", "character_id", "vehicle_id", id, item)
			}
		}
		if list, ok := character["starships"].([]interface{}); ok {
			for _, item := range list {
				junctionRow(&b, "character_starships", "character_id", "starship_id", id, item)
			}
		}
	}

	for _, vehicle := range dataset["vehicles"] {
		id := entityID(vehicle)
		if id == 0 {
			continue
		}
		if list, ok := vehicle["pilots"].([]interface{}); ok {
			for _, item := range list {
				junctionRow(&b, "vehicle_pilots", "vehicle_id", "character_id", id, item)
			}
		}
	}

	for _, starship := range dataset["starships"] {
		id := entityID(starship)
		if id == 0 {
			continue
		}
		if list, ok := starship["pilots"].([]interface{}); ok {
			for _, item := range list {
				junctionRow(&b, "starship_pilots", "starship_id", "character_id", id, item)
			}
		}
	}

	b.WriteString("\n")
	return b.String()
}

// GenerateScript builds the complete database creation script: entity
// tables, junction tables, data loads, and reporting views.
func GenerateScript(dataset Dataset) string {
	var b strings.Builder

	b.WriteString("-- Star Wars Database Creation Script\n")
	b.WriteString("-- Generated from SWAPI data\n\n")

	for _, category := range tableOrder {
		data := dataset[category]
		if len(data) == 0 {
			continue
		}
		fmt.Fprintf(&b, "-- %s TABLE\n", strings.ToUpper(tableFor(category)))
		b.WriteString(CreateTableSQL(category, data))
		b.WriteString("\n")
	}

	b.WriteString(junctionDDL)

	b.WriteString("-- DATA INSERTION\n\n")
	for _, category := range tableOrder {
		if data := dataset[category]; len(data) > 0 {
			b.WriteString(InsertSQL(category, data))
		}
	}

	b.WriteString(JunctionSQL(dataset))
	b.WriteString(viewsDDL)

	return b.String()
}
