// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing message strings printed by the
// vaultctl command line.
//
// Keeping them in one place keeps the wording of command output and
// failures consistent across commands.
package app

const (
	// MsgVaultCreated confirms a new vault. Formatted with the vault name.
	MsgVaultCreated = "vault %q created"

	// MsgVaultDeleted confirms removal of a vault and all of its accounts.
	MsgVaultDeleted = "vault %q deleted"

	// MsgVaultRenamed is formatted with the old and the new name.
	MsgVaultRenamed = "vault %q renamed to %q"

	// MsgVaultRestored is formatted with the name the backup was restored as.
	MsgVaultRestored = "backup restored as vault %q"

	// MsgBackupWritten is formatted with the destination path.
	MsgBackupWritten = "backup written to %s"

	MsgNoVaults   = "no vaults"
	MsgNoAccounts = "no accounts"

	// MsgAccountAdded is formatted with the new account ID.
	MsgAccountAdded   = "account %d added"
	MsgAccountUpdated = "account %d updated"
	MsgAccountRemoved = "account %d removed"

	// MsgPasswordCopied is formatted with the account title.
	MsgPasswordCopied = "password of %q copied to clipboard"

	MsgPasswordChanged = "master password changed"

	// MsgSecondFactorEnabled is formatted with the secret and the current
	// code so that the authenticator can be checked right away.
	MsgSecondFactorEnabled  = "second factor enabled\nsecret: %s\ncurrent code: %s"
	MsgSecondFactorDisabled = "second factor disabled"

	// MsgWrongPassword is printed when the master password is rejected.
	MsgWrongPassword = "wrong password"

	// MsgTooManyAttempts is printed once the login lockout is in effect.
	MsgTooManyAttempts = "too many attempts, try again later"

	// MsgVaultNotFound is printed when no vault with the given name exists.
	MsgVaultNotFound = "vault not found"

	// MsgWrongCode is printed for a rejected one-time code.
	MsgWrongCode = "wrong code"

	// MsgPasswordsDoNotMatch is printed when the confirmation prompt differs
	// from the first entry.
	MsgPasswordsDoNotMatch = "passwords do not match"

	// MsgUsage lists the commands understood by vaultctl.
	MsgUsage = `usage: vaultctl [flags] <command> [args]

commands:
  create NAME               create a vault
  list                      list vaults
  delete NAME               delete a vault and its accounts
  rename NAME NEW           rename a vault
  accounts NAME             list accounts of a vault
  add NAME                  add an account
  update NAME ID            edit an account
  remove NAME ID            remove an account
  passwd NAME               change the master password
  2fa-enable NAME           enable the second factor
  2fa-disable NAME          disable the second factor
  backup NAME FILE          write a backup package
  restore FILE [NEWNAME]    restore a backup package as a new vault
  copy NAME ID              copy an account password to the clipboard
  generate [LEN]            print a random password
  version                   print build information`
)
