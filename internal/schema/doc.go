// Package schema derives a relationship manifest from the foreign keys of a
// Postgres catalog schema.
//
// The introspector reads information_schema and returns one relationship
// per foreign-key column, ordered by table then column. The result can be
// written with relations.WriteManifest and fed straight to the merger.
package schema
