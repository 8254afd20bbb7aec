// Package dashboard recomputes the consortium dashboard tables from the
// clinical store: per-center sample and patient counts (db_counts) and
// per-field clinical data completeness (data_completeness). Both tables
// are fully reconciled on every refresh, deletes included, so retired
// centers and dropped fields disappear from the dashboard.
package dashboard
