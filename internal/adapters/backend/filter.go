package backend

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds the backend's filter grammar: `<field>=<op>.<value>`
// pairs joined by `&`, plus select/order/limit parameters. The zero
// value is an empty query matching all rows.
type Query struct {
	parts []string
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{}
}

// Eq adds an equality filter on field.
func (q Query) Eq(field, value string) Query {
	q.parts = append(q.parts, field+"=eq."+url.QueryEscape(value))
	return q
}

// SelectAll requests all columns explicitly.
func (q Query) SelectAll() Query {
	q.parts = append(q.parts, "select=*")
	return q
}

// OrderDesc orders results by field, descending.
func (q Query) OrderDesc(field string) Query {
	q.parts = append(q.parts, "order="+field+".desc")
	return q
}

// Limit caps the number of returned rows.
func (q Query) Limit(n int) Query {
	q.parts = append(q.parts, "limit="+strconv.Itoa(n))
	return q
}

// Encode renders the query string without a leading "?".
func (q Query) Encode() string {
	return strings.Join(q.parts, "&")
}
