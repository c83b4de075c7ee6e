package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodrunner-api/apperror"
)

var menuSchema = Schema{
	"name":        {Kind: String, Sortable: true},
	"price":       {Kind: Number, Sortable: true},
	"category":    {Kind: String, Sortable: true},
	"in_stock":    {Kind: Bool},
	"cuisine":     {Kind: StringList},
	"description": {Kind: String, NoFilter: true},
	"created_at":  {Kind: Time, Sortable: true},
}

func TestParse_Comparison(t *testing.T) {
	params := url.Values{}
	params.Set("price[gt]", "10")
	params.Set("sort", "-price")
	params.Set("limit", "2")

	q, err := Parse(menuSchema, params, 25)
	require.NoError(t, err)

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, Condition{Field: "price", Kind: Number, Op: Gt, Value: 10.0}, q.Conditions[0])
	assert.Equal(t, []SortField{{Field: "price", Desc: true}}, q.Sort)
	assert.Equal(t, 2, q.Limit)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 0, q.Offset())
}

func TestParse_Defaults(t *testing.T) {
	q, err := Parse(menuSchema, url.Values{"page": {"abc"}, "limit": {"0"}}, 25)
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, []SortField{{Field: "created_at", Desc: true}}, q.Sort)
	assert.Empty(t, q.Conditions)
	assert.Empty(t, q.Select)
}

func TestParse_LimitCapped(t *testing.T) {
	q, err := Parse(menuSchema, url.Values{"limit": {"5000"}}, 10)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, q.Limit)
}

func TestParse_ValueKinds(t *testing.T) {
	params := url.Values{
		"in_stock":        {"true"},
		"category[in]":    {"main, dessert"},
		"created_at[gte]": {"2024-03-01"},
		"cuisine":         {"Italian"},
	}

	q, err := Parse(menuSchema, params, 10)
	require.NoError(t, err)
	require.Len(t, q.Conditions, 4)

	// conditions follow sorted key order
	assert.Equal(t, "category", q.Conditions[0].Field)
	assert.Equal(t, []any{"main", "dessert"}, q.Conditions[0].Value)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), q.Conditions[1].Value)
	assert.Equal(t, "Italian", q.Conditions[2].Value)
	assert.Equal(t, true, q.Conditions[3].Value)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
	}{
		{"unknown field", url.Values{"owner_id": {"x"}}},
		{"unknown operator", url.Values{"price[ne]": {"3"}}},
		{"operator not valid for kind", url.Values{"in_stock[gt]": {"true"}}},
		{"bad number", url.Values{"price[lt]": {"cheap"}}},
		{"bad bool", url.Values{"in_stock": {"maybe"}}},
		{"bad date", url.Values{"created_at[gt]": {"yesterday"}}},
		{"no-filter field", url.Values{"description": {"tasty"}}},
		{"mongo operator injection", url.Values{"price[$gt]": {"1"}}},
		{"unsortable field", url.Values{"sort": {"in_stock"}}},
		{"unknown select", url.Values{"select": {"name,secret"}}},
		{"empty in list", url.Values{"category[in]": {" , "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(menuSchema, tt.params, 10)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
		})
	}
}

func TestParse_Select(t *testing.T) {
	q, err := Parse(menuSchema, url.Values{"select": {"name, price"}}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price"}, q.Select)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
	}{
		{"single page", 1, 10, 5, nil, nil},
		{"first of many", 1, 10, 25, &PageRef{Page: 2, Limit: 10}, nil},
		{"middle", 2, 10, 25, &PageRef{Page: 3, Limit: 10}, &PageRef{Page: 1, Limit: 10}},
		{"last exact", 3, 10, 30, nil, &PageRef{Page: 2, Limit: 10}},
		{"empty", 1, 10, 0, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Query{Page: tt.page, Limit: tt.limit}
			p := q.Paginate(tt.total)
			assert.Equal(t, tt.wantNext, p.Next)
			assert.Equal(t, tt.wantPrev, p.Prev)
		})
	}
}

func TestBSON(t *testing.T) {
	params := url.Values{
		"price[gt]":  {"10"},
		"price[lte]": {"20"},
	}
	q, err := Parse(menuSchema, params, 10)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$and": []bson.M{
		{"price": bson.M{"$gt": 10.0}},
		{"price": bson.M{"$lte": 20.0}},
	}}, q.BSON())
}

func TestBSON_SingleAndEmpty(t *testing.T) {
	q := &Query{}
	assert.Equal(t, bson.M{}, q.BSON())

	q.Conditions = []Condition{{Field: "category", Kind: String, Op: Eq, Value: "main"}}
	assert.Equal(t, bson.M{"category": bson.M{"$eq": "main"}}, q.BSON())
}

func TestBSON_StringListFoldsCase(t *testing.T) {
	q := &Query{Conditions: []Condition{
		{Field: "cuisine", Kind: StringList, Op: In, Value: []any{"thai", "c++"}},
	}}

	assert.Equal(t, bson.M{"cuisine": bson.M{"$in": []any{
		primitive.Regex{Pattern: "^thai$", Options: "i"},
		primitive.Regex{Pattern: `^c\+\+$`, Options: "i"},
	}}}, q.BSON())
}

func TestFindOptions(t *testing.T) {
	q := &Query{Sort: []SortField{{Field: "price", Desc: true}}, Page: 3, Limit: 5}
	opts := q.FindOptions()

	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}, opts.Sort)
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 10, *opts.Skip)
	assert.EqualValues(t, 5, *opts.Limit)
}

func TestProject(t *testing.T) {
	type row struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	rows := []row{{ID: "a", Name: "Soup", Price: 4.5}}

	out, err := Project(rows, []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": "a", "name": "Soup"}}, out)

	same, err := Project(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, rows, same)
}
