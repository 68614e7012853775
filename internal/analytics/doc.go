// Package analytics computes the catalog reports from merged tables: the
// sets-per-year trend, top themes by unique parts, the largest
// year-over-year theme growth and the EWMA forecast comparison.
//
// Reports only read the columns they need (set_num, year, theme_id on sets;
// id, name on themes; id, set_num on inventories; inventory_id, part_num on
// inventory parts), so extra columns added by the merger are ignored.
package analytics
