// Package present renders branch operation results for the terminal:
// informational messages and the commit tables of a comparison.
package present
