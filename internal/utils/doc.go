// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes atomic file writes, random password generation and
// identifier generation.
package utils
