package completion

// Lookup describes which catalog query to run after dispatch. Exactly one
// of the two query kinds applies: relations (tables and views) when
// Relations is true, otherwise the columns of Table.
type Lookup struct {
	Relations bool
	Schema    string
	Table     string
	Prefix    string
}

// NeedsSchemaProbe reports whether dispatch requires resolving
// SchemaOrTable against the schema catalog first.
func NeedsSchemaProbe(p Params) bool {
	return p.SchemaOrTable != ""
}

// PlanLookup picks the catalog query for p. When NeedsSchemaProbe is
// true the caller must probe the catalog and pass the outcome in
// canonicalSchema and schemaExists; otherwise both are ignored.
//
// Dispatch order: an ambiguous schema_or_table that names an existing
// schema lists that schema's relations, one that does not is read as a
// table within the configured schema. An explicit table lists its
// columns. With neither, the configured schema's relations are listed.
func PlanLookup(p Params, canonicalSchema string, schemaExists bool) Lookup {
	if p.SchemaOrTable != "" {
		if schemaExists {
			return Lookup{Relations: true, Schema: canonicalSchema, Prefix: p.Prefix}
		}
		return Lookup{Schema: p.Schema, Table: p.SchemaOrTable, Prefix: p.Prefix}
	}
	if p.Table != "" {
		return Lookup{Schema: p.Schema, Table: p.Table, Prefix: p.Prefix}
	}
	return Lookup{Relations: true, Schema: p.Schema, Prefix: p.Prefix}
}
