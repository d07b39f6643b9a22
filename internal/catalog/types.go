// Package catalog provides read-only lookups against a PostgreSQL
// database's information_schema for autocomplete.
package catalog

// Relation kind tags used in completion responses.
const (
	KindTable  = "table"
	KindView   = "view"
	KindColumn = "column"
)

// TableEntry is one relation (base table or view) visible in a schema.
type TableEntry struct {
	Name string `json:"name"`
	Type string `json:"type"` // "table" or "view"
}

// ColumnEntry is one column of a known table.
type ColumnEntry struct {
	Name     string `json:"name"`
	Table    string `json:"table"`
	DataType string `json:"dataType"`
	Type     string `json:"type"` // always "column"
}
