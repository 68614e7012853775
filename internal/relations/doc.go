// Package relations applies a relationship manifest to a table registry.
//
// A manifest lists foreign keys as table_name, column_name, referenced_table,
// referenced_column. Apply folds the list over a registry: each relationship
// whose two tables are registered replaces the source table with its left
// join against the target, and relationships naming an unknown table are
// skipped. Because the fold threads the registry through every step, a later
// relationship sees tables merged by earlier ones, so manifest order matters.
package relations
