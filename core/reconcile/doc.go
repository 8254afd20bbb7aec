// Package reconcile computes the minimal write-batch that brings a
// central row store in line with an authoritative new dataset.
//
// Given the current store snapshot (rows carrying row id + row version
// identity) and a new dataset over the same columns, the engine computes:
//
//  1. Appends: rows keyed in the new dataset but absent from the store.
//  2. Updates: rows keyed in both whose non-key values differ, carrying
//     forward the store row's original identity.
//  3. Deletes (opt-in): store rows absent from the new dataset, reduced
//     to their identity pairs.
//
// Rows are matched by a composite key: the space-joined, string-coerced
// concatenation of caller-named columns. Before any comparison, missing
// values are normalized to the empty string, so null and "" are the same
// value. Duplicate keys on the new-dataset side collapse to the first
// occurrence.
//
// The engine is pure: it performs no I/O, holds no state between calls,
// and never mutates its inputs. Applying the batch atomically is the
// caller's job (see core/tablestore).
package reconcile
