package sql

import "strings"

// StatementKind is the coarse category of a SQL statement, determined
// from its leading keyword only.
type StatementKind int

const (
	KindQuery   StatementKind = iota // SELECT, WITH, SHOW, DESCRIBE, EXPLAIN, PRAGMA
	KindDDL                          // CREATE, DROP, ALTER, TRUNCATE
	KindDML                          // INSERT, UPDATE, DELETE, COPY, MERGE
	KindTxn                          // BEGIN, COMMIT, ROLLBACK
	KindUnknown                      // anything else
)

// String returns the category name.
func (k StatementKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindDDL:
		return "ddl"
	case KindDML:
		return "dml"
	case KindTxn:
		return "txn"
	default:
		return "unknown"
	}
}

// ProducesRows reports whether statements of this kind are expected to
// return a result set that should be fetched and displayed.
func (k StatementKind) ProducesRows() bool {
	return k == KindQuery
}

// Classify inspects the first keyword of a statement and returns its
// kind. The check is case-insensitive and ignores leading whitespace.
// No grammar validation is performed; a malformed statement still gets
// a kind based on its first word.
func Classify(stmt string) StatementKind {
	word := firstWord(stmt)

	switch strings.ToUpper(word) {
	case "SELECT", "WITH", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "PRAGMA", "SUMMARIZE", "FROM":
		return KindQuery
	case "CREATE", "DROP", "ALTER", "TRUNCATE":
		return KindDDL
	case "INSERT", "UPDATE", "DELETE", "COPY", "MERGE", "REPLACE":
		return KindDML
	case "BEGIN", "COMMIT", "ROLLBACK", "CHECKPOINT":
		return KindTxn
	default:
		return KindUnknown
	}
}

// firstWord extracts the leading identifier of a statement.
func firstWord(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	for i := 0; i < len(stmt); i++ {
		ch := stmt[i]
		isWord := ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
		if !isWord {
			return stmt[:i]
		}
	}
	return stmt
}
