package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"student-housing/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listingQuery accumulates WHERE conditions with positional arguments.
type listingQuery struct {
	conditions []string
	args       []interface{}
}

func (q *listingQuery) addCondition(condition string, field string, arg interface{}) {
	q.args = append(q.args, arg)
	q.conditions = append(q.conditions, fmt.Sprintf(condition, field, len(q.args)))
}

func (q *listingQuery) nextArg(arg interface{}) string {
	q.args = append(q.args, arg)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listingQuery) where() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.conditions, " AND ")
}

// buildListingFilter translates a normalized filter into a predicate over the
// listings table aliased as l. The price range is always applied and is closed
// on both ends.
func buildListingFilter(filter domain.FilterOptions) *listingQuery {
	q := &listingQuery{}

	if filter.Search != "" {
		q.addCondition("%s ILIKE $%d", "l.location", "%"+likeEscaper.Replace(filter.Search)+"%")
	}

	if len(filter.PropertyTypes) > 0 {
		q.addCondition("%s = ANY($%d)", "l.property_type", pq.Array(filter.PropertyTypes))
	}

	if filter.Bedrooms != nil {
		q.addCondition("%s >= $%d", "l.beds", *filter.Bedrooms)
	}
	if filter.Bathrooms != nil {
		q.addCondition("%s >= $%d", "l.baths", *filter.Bathrooms)
	}

	q.addCondition("%s >= $%d", "l.price", filter.PriceRange[0])
	q.addCondition("%s <= $%d", "l.price", filter.PriceRange[1])

	return q
}

var featuredExpr = fmt.Sprintf(`EXISTS (
		SELECT 1 FROM subscriptions s
		WHERE s.user_id = l.owner_id AND s.status = '%s' AND s.tier = '%s' AND s.expires_at > NOW()
	)`, domain.SubscriptionActive, domain.TierPremium)

type listingSearchSQL struct {
	Query     string
	Args      []interface{}
	CountSQL  string
	CountArgs []interface{}
}

func searchListingsSQL(filter domain.FilterOptions, params domain.PaginationParams) listingSearchSQL {
	q := buildListingFilter(filter)
	where := q.where()

	out := listingSearchSQL{
		CountSQL:  `SELECT COUNT(*) FROM listings l ` + where,
		CountArgs: append([]interface{}(nil), q.args...),
	}

	limit := q.nextArg(params.PageSize)
	offset := q.nextArg(params.Offset())

	out.Query = fmt.Sprintf(`
		SELECT l.*, %s AS is_featured
		FROM listings l
		%s
		ORDER BY is_featured DESC, l.created_at DESC, l.id
		LIMIT %s OFFSET %s`, featuredExpr, where, limit, offset)
	out.Args = q.args

	return out
}
