// Package utils provides common utility functions for the harness.
// It includes loose type conversion used when reading configuration values and
// form parameters, and list splitting for comma separated settings.
package utils
