package store

import (
	"fmt"
	"strings"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	defaultComparablesLimit = 300

	orderByHotness   = "hotness"
	orderByPrice     = "price"
	orderByCreatedAt = "created_at"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByHotness:   "hotness_score DESC, id DESC",
	orderByPrice:     "price ASC, id ASC",
	orderByCreatedAt: "created_at DESC, id DESC",
}

const defaultOrderBy = "created_at DESC, id DESC"

const countBikesSelect = "SELECT COUNT(*) FROM bikes"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a catalog query.
// It returns two SQL strings (one for the data query, one for the count query)
// and the positional parameters.
func (q *BikeQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Brand != nil {
		conditions = append(conditions, fmt.Sprintf("LOWER(brand) = LOWER($%d)", paramIdx))
		args = append(args, *q.Brand)
		paramIdx++
	}

	if q.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", paramIdx))
		args = append(args, *q.Category)
		paramIdx++
	}

	if q.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", paramIdx))
		args = append(args, *q.Priority)
		paramIdx++
	}

	if q.NeedsAudit != nil {
		conditions = append(conditions, fmt.Sprintf("needs_audit = $%d", paramIdx))
		args = append(args, *q.NeedsAudit)
	}

	if q.ActiveOnly {
		conditions = append(conditions, "is_active")
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseBikesSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countBikesSelect + whereClause

	return dataSQL, countSQL, args
}

// ComparablesSQL builds the valuation read over market_history. Brand is
// matched case-insensitively; each pattern matches model or title as a
// case-insensitive substring. Newest rows come first.
func ComparablesSQL(q *domain.ComparableQuery) (string, []any) {
	args := []any{q.Brand}
	conditions := []string{"LOWER(brand) = LOWER($1)", "price_eur > 0"}
	paramIdx := 2

	if q.RecentDays > 0 {
		conditions = append(conditions, fmt.Sprintf("scraped_at > now() - make_interval(days => $%d)", paramIdx))
		args = append(args, q.RecentDays)
		paramIdx++
	}

	if len(q.Patterns) > 0 {
		ors := make([]string, 0, len(q.Patterns))
		for _, p := range q.Patterns {
			ors = append(ors, fmt.Sprintf("model ILIKE $%d OR title ILIKE $%d", paramIdx, paramIdx))
			args = append(args, "%"+escapeLike(p)+"%")
			paramIdx++
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultComparablesLimit
	}

	sql := fmt.Sprintf(
		"%s WHERE %s ORDER BY scraped_at DESC, id DESC LIMIT %d",
		baseComparablesSelect, strings.Join(conditions, " AND "), limit,
	)
	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
