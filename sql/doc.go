// Package sql provides statement-level handling of raw SQL script text.
//
// The package does not parse SQL grammar. It offers two lexical
// operations that sit below any real parser:
//
//   - Split divides a script into individual executable statements,
//     honoring string literals and line comments.
//   - Classify decides whether a statement is expected to produce rows.
//
// # Split Usage
//
//	stmts := sql.Split(`
//	    -- create and populate
//	    CREATE TABLE t (id INTEGER, name VARCHAR);
//	    INSERT INTO t VALUES (1, 'it''s fine; really');
//	`)
//	for _, stmt := range stmts {
//	    // run each statement in order
//	}
//
// Semicolons and comment markers inside single- or double-quoted
// string literals are treated as data. A doubled quote inside a string
// literal is the escaped form of that quote character; backslash
// escapes are not part of the supported dialect.
//
// # Classify Usage
//
//	if sql.Classify(stmt).ProducesRows() {
//	    // fetch and display a result set
//	}
package sql
