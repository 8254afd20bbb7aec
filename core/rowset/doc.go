// Package rowset provides the ordered, uniform-schema table abstraction
// shared by the validation and reconciliation pipelines.
//
// A Table is an ordered collection of rows over a fixed set of named
// columns. Each cell holds a typed scalar Value (string, integer, float,
// or missing). Rows originating from the central store additionally carry
// an Identity (row id + row version) as an explicit per-row field, so
// identity travels with the row through every transformation instead of
// being tracked by position.
//
// # Copy discipline
//
// No method mutates its receiver's data in place unless documented as a
// builder (AppendRow). Transformations (FillMissing, Project, WithKey,
// DedupeBy, LeftDiff, LeftUnion) return new tables; callers can hand a
// table to the reconciler and keep using their copy.
//
// # Value rendering
//
// Comparison and key building operate on rendered strings: missing values
// render as "", and float values that are mathematically integers render
// without a decimal point (5.0 -> "5"). This makes null and empty string
// equivalent for diffing, and makes 5 and 5.0 the same key component.
package rowset
