package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecord struct {
	recordType string
	status     string
	title      string
	date       time.Time
}

func (r fakeRecord) field(key string) string {
	switch key {
	case "record_type":
		return r.recordType
	case "status":
		return r.status
	}
	return ""
}

func filterRecords(c Criteria, records []fakeRecord) []fakeRecord {
	var out []fakeRecord
	for _, r := range records {
		if c.Matches(r.field, r.date, r.title, r.recordType) {
			out = append(out, r)
		}
	}
	return out
}

func TestParseDefaults(t *testing.T) {
	c := Parse(url.Values{})
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, DefaultLimit, c.Limit)
	assert.Empty(t, c.Search)
	assert.Empty(t, c.Filters)
	assert.Nil(t, c.From)
	assert.Nil(t, c.To)
}

func TestParseIgnoresUnknownKeysAndCapsLimit(t *testing.T) {
	values := url.Values{
		"status": {"ACTIVE"},
		"bogus":  {"x"},
		"limit":  {"5000"},
		"page":   {"3"},
	}
	c := Parse(values, "status", "record_type")
	assert.Equal(t, map[string]string{"status": "ACTIVE"}, c.Filters)
	assert.Equal(t, MaxLimit, c.Limit)
	assert.Equal(t, 3, c.Page)
	assert.Equal(t, 2*MaxLimit, c.Offset())
}

// A request that drops the page parameter when filters change always lands
// back on page 1.
func TestParseWithoutPageResetsToFirstPage(t *testing.T) {
	c := Parse(url.Values{"status": {"ACTIVE"}}, "status")
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 0, c.Offset())
}

func TestParseDateRangeInclusive(t *testing.T) {
	c := Parse(url.Values{"from": {"2024-03-01"}, "to": {"2024-03-31"}})
	require.NotNil(t, c.From)
	require.NotNil(t, c.To)

	lastMoment := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	assert.True(t, InDateRange(lastMoment, c.From, c.To))
	assert.True(t, InDateRange(*c.From, c.From, c.To))
	assert.False(t, InDateRange(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), c.From, c.To))
	assert.False(t, InDateRange(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), c.From, c.To))
}

func TestStatusFilterSelectsExactly(t *testing.T) {
	records := []fakeRecord{
		{recordType: "LAB_RESULT", status: "ACTIVE", title: "blood panel"},
		{recordType: "IMAGING", status: "COMPLETED", title: "chest x-ray"},
	}
	c := Criteria{Filters: map[string]string{"status": "ACTIVE"}}
	got := filterRecords(c, records)
	require.Len(t, got, 1)
	assert.Equal(t, "LAB_RESULT", got[0].recordType)
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	assert.True(t, MatchesSearch("X-Ray", "chest x-ray", "IMAGING"))
	assert.True(t, MatchesSearch("imag", "chest x-ray", "IMAGING"))
	assert.False(t, MatchesSearch("ultrasound", "chest x-ray", "IMAGING"))
	assert.True(t, MatchesSearch("", "anything"))
}

// Adding a predicate never grows the visible set.
func TestFilteringIsMonotonic(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []fakeRecord{
		{recordType: "LAB_RESULT", status: "ACTIVE", title: "blood panel", date: now},
		{recordType: "LAB_RESULT", status: "COMPLETED", title: "lipid panel", date: now.AddDate(0, -2, 0)},
		{recordType: "IMAGING", status: "ACTIVE", title: "chest x-ray", date: now.AddDate(0, -1, 0)},
		{recordType: "DIAGNOSIS", status: "ARCHIVED", title: "panel review", date: now.AddDate(-1, 0, 0)},
	}

	steps := []Criteria{
		{},
		{Search: "panel"},
		{Search: "panel", Filters: map[string]string{"record_type": "LAB_RESULT"}},
		{Search: "panel", Filters: map[string]string{"record_type": "LAB_RESULT", "status": "ACTIVE"}},
	}

	prev := len(records)
	for _, c := range steps {
		visible := filterRecords(c, records)
		assert.LessOrEqual(t, len(visible), prev, "narrowing criteria %+v grew the result", c)
		prev = len(visible)
	}

	from := now.AddDate(0, 0, -7)
	narrowed := steps[3]
	narrowed.From = &from
	assert.LessOrEqual(t, len(filterRecords(narrowed, records)), prev)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(41, 10))
}
