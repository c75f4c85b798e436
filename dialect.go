package main

import (
	"strconv"
	"strings"
)

// Dialect holds the statement details that differ between drivers.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// TerminateQuery kills every other backend on the database bound to $1.
	// Empty when the engine has no such notion.
	TerminateQuery string
}

var postgresDialect = Dialect{
	Name: "postgres",
	Placeholder: func(n int) string {
		return "$" + strconv.Itoa(n)
	},
	TerminateQuery: `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1
		  AND pid <> pg_backend_pid()
	`,
}

var sqliteDialect = Dialect{
	Name: "sqlite",
	Placeholder: func(int) string {
		return "?"
	},
}

func DialectFor(connType ConnectionType) Dialect {
	switch connType {
	case ConnectionSQLite:
		return sqliteDialect
	default:
		return postgresDialect
	}
}

func (d Dialect) placeholders(from, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, d.Placeholder(from+i))
	}
	return out
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteQualified quotes each dot-separated part, so "my_schema_1.reminders"
// becomes "my_schema_1"."reminders".
func quoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = quoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}
