package repository

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-housing/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestBuildListingFilter_PriceRangeAlwaysApplied(t *testing.T) {
	q := buildListingFilter(domain.FilterOptions{PriceRange: [2]float64{0, 3000}})

	assert.Equal(t, "WHERE l.price >= $1 AND l.price <= $2", q.where())
	assert.Equal(t, []interface{}{0.0, 3000.0}, q.args)
}

func TestBuildListingFilter_AllPredicates(t *testing.T) {
	q := buildListingFilter(domain.FilterOptions{
		Search:        "Bologna",
		PriceRange:    [2]float64{200, 900},
		PropertyTypes: []string{"apartment"},
		Bedrooms:      intPtr(1),
		Bathrooms:     intPtr(2),
	})

	assert.Equal(t,
		"WHERE l.location ILIKE $1 AND l.property_type = ANY($2) AND l.beds >= $3 AND l.baths >= $4 AND l.price >= $5 AND l.price <= $6",
		q.where())
	require.Len(t, q.args, 6)
	assert.Equal(t, "%Bologna%", q.args[0])
	assert.Equal(t, pq.Array([]string{"apartment"}), q.args[1])
	assert.Equal(t, 1, q.args[2])
	assert.Equal(t, 2, q.args[3])
	assert.Equal(t, 200.0, q.args[4])
	assert.Equal(t, 900.0, q.args[5])
}

func TestBuildListingFilter_EscapesLikeMetacharacters(t *testing.T) {
	q := buildListingFilter(domain.FilterOptions{Search: `50%_off\`, PriceRange: [2]float64{0, 1}})

	assert.Equal(t, `%50\%\_off\\%`, q.args[0])
}

func TestSearchListingsSQL_PaginationArgsFollowFilterArgs(t *testing.T) {
	params := domain.PaginationParams{Page: 3, PageSize: 10}
	stmt := searchListingsSQL(domain.FilterOptions{
		PriceRange:    [2]float64{200, 900},
		PropertyTypes: []string{"room", "studio"},
	}, params)

	assert.Len(t, stmt.CountArgs, 3)
	assert.Contains(t, stmt.CountSQL, "FROM listings l WHERE")
	require.Len(t, stmt.Args, 5)
	assert.Equal(t, 10, stmt.Args[3])
	assert.Equal(t, 20, stmt.Args[4])
	assert.Contains(t, stmt.Query, "LIMIT $4 OFFSET $5")
	assert.Contains(t, stmt.Query, "ORDER BY is_featured DESC")
}
