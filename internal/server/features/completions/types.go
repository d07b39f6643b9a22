// Package completions serves autocomplete lookups against a PostgreSQL
// catalog.
package completions

import "github.com/leapstack-labs/dbcomp/internal/catalog"

// Envelope is the JSON body of every completions response. Tables and
// Columns encode as arrays, never null, and at most one of them is
// populated; Message appears on errors and on the no-URL case.
type Envelope struct {
	Status  string                `json:"status"`
	Tables  []catalog.TableEntry  `json:"tables"`
	Columns []catalog.ColumnEntry `json:"columns"`
	Message string                `json:"message,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func successEnvelope(tables []catalog.TableEntry, columns []catalog.ColumnEntry) Envelope {
	// Return empty arrays instead of null
	if tables == nil {
		tables = []catalog.TableEntry{}
	}
	if columns == nil {
		columns = []catalog.ColumnEntry{}
	}
	return Envelope{Status: statusSuccess, Tables: tables, Columns: columns}
}

func errorEnvelope(message string) Envelope {
	return Envelope{
		Status:  statusError,
		Tables:  []catalog.TableEntry{},
		Columns: []catalog.ColumnEntry{},
		Message: message,
	}
}
