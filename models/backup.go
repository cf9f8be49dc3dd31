package models

import "time"

// BackupPackage is the on-disk backup of a single vault. Account fields
// hold ciphertext exactly as stored.
//
// PackageID and CreatedAt are additions; readers that do not know them
// ignore them, and packages without them still restore.
type BackupPackage struct {
	PackageID string     `json:"PackageId,omitempty"`
	CreatedAt *time.Time `json:"CreatedAt,omitempty"`
	Database  *Vault     `json:"Database"`
	Accounts  []Account  `json:"Accounts"`
}
