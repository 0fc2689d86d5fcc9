package sqlstore

import (
	"strings"

	"lightbnb/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// buildPropertiesQuery renders the property listing for f in dialect d.
// WHERE conditions are ANDed in a fixed order (city, owner, min price,
// max price); the rating bound goes to HAVING since it filters on the
// aggregate. Arguments are returned in placeholder order.
func buildPropertiesQuery(d Dialect, f domain.PropertyFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.City != nil && strings.TrimSpace(*f.City) != "" {
		where = append(where, d.ContainsFold("p.city"))
		args = append(args, "%"+escapeLike(strings.TrimSpace(*f.City))+"%")
	}
	if f.OwnerID != nil {
		where = append(where, "p.owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.MinPricePerNight != nil {
		where = append(where, "p.cost_per_night >= ?")
		args = append(args, *f.MinPricePerNight)
	}
	if f.MaxPricePerNight != nil {
		where = append(where, "p.cost_per_night <= ?")
		args = append(args, *f.MaxPricePerNight)
	}

	var b strings.Builder
	b.WriteString(propertiesSelect)
	b.WriteString("\n")
	if len(where) > 0 {
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(where, "\n  AND "))
		b.WriteString("\n")
	}
	b.WriteString(propertiesGroupBy)
	b.WriteString("\n")
	if f.MinimumRating != nil {
		b.WriteString("HAVING AVG(pr.rating) >= ?\n")
		args = append(args, *f.MinimumRating)
	}
	b.WriteString(propertiesOrderBy)
	b.WriteString("\nLIMIT ?")
	args = append(args, clampLimit(f.Limit))
	if f.Offset > 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, f.Offset)
	}
	return d.Rebind(b.String()), args
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// escapeLike neutralizes LIKE wildcards in user input. Backslash is the
// default escape character on both PostgreSQL and MySQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
