// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the vaultctl command line.
//
// Every command is a one-shot session: the master password (and, when the
// vault has one, the second-factor code) is prompted for, the operation
// runs, and the session is logged out before the command returns. While a
// session is open the auto-lock worker guards it against an abandoned
// prompt.
package cli
