// Package backup reads and writes vault backup packages.
//
// A package is a JSON document holding one vault row and its accounts
// exactly as stored: the password hash, the salt and every encrypted account
// field travel untouched, so the original master password keeps working
// after a restore.
package backup
