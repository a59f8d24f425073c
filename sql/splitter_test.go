package sql

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			"empty input",
			"",
			nil,
		},
		{
			"blank input",
			"  \n\t\n  ",
			nil,
		},
		{
			"single statement",
			"SELECT 1;",
			[]string{"SELECT 1"},
		},
		{
			"single statement without semicolon",
			"SELECT 1",
			[]string{"SELECT 1"},
		},
		{
			"two statements",
			"SELECT 1; SELECT 2;",
			[]string{"SELECT 1", "SELECT 2"},
		},
		{
			"semicolon inside single-quoted string",
			"SELECT ';'; SELECT 2;",
			[]string{"SELECT ';'", "SELECT 2"},
		},
		{
			"semicolon inside double-quoted string",
			`SELECT ";" FROM t; SELECT 2;`,
			[]string{`SELECT ";" FROM t`, "SELECT 2"},
		},
		{
			"doubled quote escape",
			"SELECT 'it''s fine';",
			[]string{"SELECT 'it''s fine'"},
		},
		{
			"doubled quote followed by semicolon in string",
			"INSERT INTO t VALUES ('a''b;c');",
			[]string{"INSERT INTO t VALUES ('a''b;c')"},
		},
		{
			"full-line comment dropped",
			"-- comment\nSELECT 1;",
			[]string{"SELECT 1"},
		},
		{
			"comment-only input",
			"-- one\n-- two\n",
			nil,
		},
		{
			"trailing comment after semicolon",
			"SELECT 1; -- trailing\nSELECT 2;",
			[]string{"SELECT 1", "SELECT 2"},
		},
		{
			"trailing comment before semicolon",
			"SELECT 1 -- note\n;",
			[]string{"SELECT 1"},
		},
		{
			"comment marker inside string",
			"SELECT 'a -- b'; SELECT 2;",
			[]string{"SELECT 'a -- b'", "SELECT 2"},
		},
		{
			"comment hides semicolon",
			"SELECT 1 -- ; not a separator\n+ 2;",
			[]string{"SELECT 1 \n+ 2"},
		},
		{
			"empty statements dropped",
			";;;SELECT 1;;",
			[]string{"SELECT 1"},
		},
		{
			"multi-line statement",
			"CREATE TABLE t (\n  id INTEGER,\n  name VARCHAR\n);\nINSERT INTO t VALUES (1, 'a');",
			[]string{"CREATE TABLE t (\n  id INTEGER,\n  name VARCHAR\n)", "INSERT INTO t VALUES (1, 'a')"},
		},
		{
			"unterminated string runs to end of input",
			"SELECT 'oops; SELECT 2;",
			[]string{"SELECT 'oops; SELECT 2;"},
		},
		{
			"mixed quote characters",
			`SELECT "col;name", 'val;ue' FROM t;`,
			[]string{`SELECT "col;name", 'val;ue' FROM t`},
		},
		{
			"backslash is not an escape",
			`SELECT 'a\'; SELECT 2;`,
			[]string{`SELECT 'a\'`, "SELECT 2"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := Split(test.text)
			if !reflect.DeepEqual(actual, test.expected) {
				t.Errorf("Split(%q) = %#v, expected %#v", test.text, actual, test.expected)
			}
		})
	}
}

func TestSplitNoSeparatorsReturnsTrimmedInput(t *testing.T) {
	input := "  CREATE TABLE t (id INTEGER)  \n"

	stmts := Split(input)
	if len(stmts) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(stmts))
	}
	if stmts[0] != strings.TrimSpace(input) {
		t.Errorf("Expected trimmed input, got %q", stmts[0])
	}
}

func TestSplitIdempotent(t *testing.T) {
	script := `
-- setup
CREATE TABLE users (id INTEGER, note VARCHAR);
INSERT INTO users VALUES (1, 'don''t; stop');
SELECT * FROM users WHERE note LIKE '%;%';
SELECT 2`

	first := Split(script)
	second := Split(strings.Join(first, ";\n") + ";")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Re-splitting joined output changed statements:\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

func TestSplitOrderPreserved(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Repeat("1+", i))
		sb.WriteString("1;\n")
	}

	stmts := Split(sb.String())
	if len(stmts) != 50 {
		t.Fatalf("Expected 50 statements, got %d", len(stmts))
	}
	for i, stmt := range stmts {
		expected := "SELECT " + strings.Repeat("1+", i) + "1"
		if stmt != expected {
			t.Errorf("Statement %d = %q, expected %q", i, stmt, expected)
		}
	}
}

func BenchmarkSplit(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("-- row batch\n")
		sb.WriteString("INSERT INTO lineitem VALUES (1, 2, 3, 'DELIVER IN PERSON', 'it''s; data');\n")
	}
	script := sb.String()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		Split(script)
	}
}
