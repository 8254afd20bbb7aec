// Package utils provides common utility functions for the data-curator
// application. It includes scalar conversion helpers for values coming
// back from SQL drivers, which report numbers as a mix of int64, float64,
// and []byte depending on the driver and column type.
package utils
