// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

var allClasses = utils.CharClasses{Letters: true, Capitals: true, Numbers: true, Special: true}

// ── vaults ──

func (a *App) create(ctx context.Context, args []string) error {
	password, err := a.newPassword("Master password")
	if err != nil {
		return err
	}

	vault, err := a.services.CreateVault(ctx, args[0], password)
	if err != nil {
		return err
	}
	a.printf(app.MsgVaultCreated, vault.Name)
	return nil
}

func (a *App) list(ctx context.Context, _ []string) error {
	vaults, err := a.services.ListVaults(ctx)
	if err != nil {
		return err
	}
	if len(vaults) == 0 {
		a.println(app.MsgNoVaults)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\t2FA")
	for _, v := range vaults {
		twoFA := "off"
		if v.HasSecondFactor() {
			twoFA = "on"
		}
		fmt.Fprintf(w, "%s\t%s\n", v.Name, twoFA)
	}
	return w.Flush()
}

func (a *App) deleteVault(ctx context.Context, args []string) error {
	name := args[0]
	return a.withSession(ctx, name, func(service.Session, string) error {
		answer, err := a.prompter.Line(fmt.Sprintf("Delete vault %q and all of its accounts? [y/N]: ", name))
		if err != nil {
			return err
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return nil
		}

		if err = a.services.DeleteVault(ctx, name); err != nil {
			return err
		}
		a.printf(app.MsgVaultDeleted, name)
		return nil
	})
}

func (a *App) rename(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		if err := s.RenameVault(ctx, args[1]); err != nil {
			return err
		}
		a.printf(app.MsgVaultRenamed, args[0], args[1])
		return nil
	})
}

func (a *App) passwd(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, current string) error {
		password, err := a.newPassword("New master password")
		if err != nil {
			return err
		}
		if err = s.ChangePassword(ctx, current, password); err != nil {
			return err
		}
		a.println(app.MsgPasswordChanged)
		return nil
	})
}

func (a *App) enableSecondFactor(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		secret, err := s.EnableSecondFactor(ctx)
		if err != nil {
			return err
		}
		code, err := a.services.GenerateCode(secret)
		if err != nil {
			return err
		}
		a.printf(app.MsgSecondFactorEnabled, secret, code)
		return nil
	})
}

func (a *App) disableSecondFactor(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		if err := s.DisableSecondFactor(ctx); err != nil {
			return err
		}
		a.println(app.MsgSecondFactorDisabled)
		return nil
	})
}

func (a *App) backup(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		if err := s.Backup(ctx, args[1]); err != nil {
			return err
		}
		a.printf(app.MsgBackupWritten, args[1])
		return nil
	})
}

func (a *App) restore(ctx context.Context, args []string) error {
	var newName string
	if len(args) > 1 {
		newName = args[1]
	}

	s := a.services.NewSession()
	defer s.Close()

	vault, err := s.Restore(ctx, args[0], newName)
	if err != nil {
		return err
	}
	a.printf(app.MsgVaultRestored, vault.Name)
	return nil
}

// ── accounts ──

func (a *App) accounts(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		accounts, err := s.GetAccounts(ctx)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			a.println(app.MsgNoAccounts)
			return nil
		}

		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tTITLE\tUSERNAME\tDESCRIPTION")
		for _, acct := range accounts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", acct.ID, acct.Type, acct.Title, acct.Username, acct.Description)
		}
		return w.Flush()
	})
}

func (a *App) add(ctx context.Context, args []string) error {
	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		var acct models.Account
		if err := a.editAccount(&acct); err != nil {
			return err
		}

		added, err := s.Add(ctx, acct)
		if err != nil {
			return err
		}
		a.printf(app.MsgAccountAdded, added.ID)
		return nil
	})
}

func (a *App) update(ctx context.Context, args []string) error {
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		acct, err := findAccount(ctx, s, id)
		if err != nil {
			return err
		}
		if err = a.editAccount(&acct); err != nil {
			return err
		}
		if err = s.Update(ctx, acct); err != nil {
			return err
		}
		a.printf(app.MsgAccountUpdated, id)
		return nil
	})
}

func (a *App) remove(ctx context.Context, args []string) error {
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
		a.printf(app.MsgAccountRemoved, id)
		return nil
	})
}

func (a *App) copyPassword(ctx context.Context, args []string) error {
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	return a.withSession(ctx, args[0], func(s service.Session, _ string) error {
		acct, err := findAccount(ctx, s, id)
		if err != nil {
			return err
		}
		if err = a.clipboard.WriteAll(acct.Password); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		a.printf(app.MsgPasswordCopied, acct.Title)
		return nil
	})
}

// editAccount prompts for every editable field of acct. An empty answer
// keeps the current value. An empty password for a new account is
// generated.
func (a *App) editAccount(acct *models.Account) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Title", &acct.Title},
		{"Username", &acct.Username},
		{"Description", &acct.Description},
		{"Type", &acct.Type},
	}

	for _, f := range fields {
		prompt := f.label + ": "
		if *f.value != "" {
			prompt = fmt.Sprintf("%s [%s]: ", f.label, *f.value)
		}
		answer, err := a.prompter.Line(prompt)
		if err != nil {
			return err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			*f.value = answer
		}
	}

	prompt := "Password (empty to generate): "
	if acct.Password != "" {
		prompt = "Password (empty keeps current): "
	}
	password, err := a.prompter.Password(prompt)
	if err != nil {
		return err
	}

	switch {
	case password != "":
		acct.Password = password
	case acct.Password == "":
		if acct.Password, err = a.generator.RandomString(defaultPasswordLength, allClasses); err != nil {
			return err
		}
	}
	return nil
}

// ── misc ──

func (a *App) generate(_ context.Context, args []string) error {
	length := defaultPasswordLength
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: length must be a positive number", ErrUsage)
		}
		length = n
	}

	password, err := a.generator.RandomString(length, allClasses)
	if err != nil {
		return err
	}
	a.println(password)
	return nil
}

func (a *App) version(context.Context, []string) error {
	a.println(a.buildInfo.String())
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
	}
	return id, nil
}

func findAccount(ctx context.Context, s service.Session, id int64) (models.Account, error) {
	accounts, err := s.GetAccounts(ctx)
	if err != nil {
		return models.Account{}, err
	}
	for _, acct := range accounts {
		if acct.ID == id {
			return acct, nil
		}
	}
	return models.Account{}, fmt.Errorf("%w: %d", service.ErrAccountNotFound, id)
}
