package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the few places PostgreSQL and MySQL disagree for the
// statements in this package. Queries are written with '?' placeholders and
// rebound per dialect.
type Dialect struct {
	Name string
	// DriverName is the database/sql driver registered for this dialect.
	DriverName string
	// Numbered placeholders ($1, $2, ...) instead of '?'.
	Numbered bool
	// Returning reports INSERT ... RETURNING support.
	Returning bool
}

var (
	Postgres = Dialect{Name: "postgres", DriverName: "pgx", Numbered: true, Returning: true}
	MySQL    = Dialect{Name: "mysql", DriverName: "mysql"}
)

func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return Dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", name)
}

// Rebind rewrites '?' placeholders outside quoted literals into the
// dialect's form.
func (d Dialect) Rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ContainsFold renders a case-insensitive "column contains ?" predicate.
// The argument is expected to already carry the surrounding '%' wildcards.
func (d Dialect) ContainsFold(column string) string {
	if d.Numbered {
		return column + " ILIKE ?"
	}
	return "LOWER(" + column + ") LIKE LOWER(?)"
}
