// Package dataset holds the in-memory table model used by the merger and the
// reports: named tables of string cells, an immutable registry of tables, and
// the join and CSV primitives that operate on them.
//
// Cells are strings. The empty string is the missing value, which is what a
// left join produces for unmatched rows and what CSV round trips preserve.
//
// Tables and registries are never modified after construction. Operations
// such as Select, Rename, LeftJoin and Registry.With return new values, so an
// earlier registry stays valid while a fold builds later ones:
//
//	reg := dataset.NewRegistry(sets, themes)
//	merged, err := dataset.LeftJoin(sets, themes, "theme_id", "id", "_themes")
//	next := reg.With(merged) // reg still holds the raw sets table
package dataset
