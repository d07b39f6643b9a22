// Package completion holds the parameter parsing and dispatch decisions
// for the completions endpoint. It is free of HTTP and database concerns
// so both can be tested without a server or a live connection.
package completion

import (
	"net/url"
	"strings"
)

// DefaultSchema is searched when the request does not name one.
const DefaultSchema = "public"

// Params are the request inputs after defaulting and normalization.
type Params struct {
	// DBURL is the connection string, already percent-decoded when it
	// came from the request rather than from configuration.
	DBURL string

	// Prefix is the lower-cased starts-with filter. Empty matches all.
	Prefix string

	// Schema is the schema to search, defaulting to "public".
	Schema string

	// Table restricts the lookup to one table's columns.
	Table string

	// SchemaOrTable is an ambiguous identifier resolved against the
	// schema catalog before dispatch.
	SchemaOrTable string
}

// ParseParams reads the completion query parameters, applying defaults.
// fallbackURL is the configured connection string used when the request
// does not carry one; it is taken as-is, while an explicit db_url gets a
// second percent-decode because clients encode the connection string
// before placing it in the query.
func ParseParams(q url.Values, fallbackURL string) Params {
	dbURL := q.Get("db_url")
	if dbURL == "" {
		dbURL = fallbackURL
	} else {
		dbURL = unescapeURL(dbURL)
	}

	schema := q.Get("schema")
	if schema == "" {
		schema = DefaultSchema
	}

	return Params{
		DBURL:         dbURL,
		Prefix:        strings.ToLower(q.Get("prefix")),
		Schema:        schema,
		Table:         q.Get("table"),
		SchemaOrTable: q.Get("schema_or_table"),
	}
}

// unescapeURL percent-decodes s, keeping it unchanged when it contains
// malformed escape sequences.
func unescapeURL(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
