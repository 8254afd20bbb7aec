// Package database provides connectivity to the central tabular store's
// backing database. It wraps GORM with sane pool settings and supports
// MySQL for production and sqlite for local development and tests.
package database
