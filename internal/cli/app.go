// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

const (
	defaultPasswordLength = 20
	maxPrompts            = 3
)

type command struct {
	minArgs int
	maxArgs int
	run     func(ctx context.Context, args []string) error
}

// App dispatches vaultctl commands.
type App struct {
	services  Services
	prompter  Prompter
	clipboard Clipboard
	generator *utils.PasswordGenerator
	workers   config.Workers
	buildInfo models.AppBuildInfo
	out       io.Writer
	log       *logger.Logger

	commands map[string]command
}

type Option func(*App)

func WithClipboard(c Clipboard) Option {
	return func(a *App) {
		a.clipboard = c
	}
}

func WithGenerator(g *utils.PasswordGenerator) Option {
	return func(a *App) {
		a.generator = g
	}
}

func WithBuildInfo(info models.AppBuildInfo) Option {
	return func(a *App) {
		a.buildInfo = info
	}
}

// NewApp returns an App printing command output to out.
func NewApp(services Services, prompter Prompter, out io.Writer, workers config.Workers, log *logger.Logger, opts ...Option) *App {
	if log == nil {
		log = logger.Nop()
	}

	a := &App{
		services:  services,
		prompter:  prompter,
		clipboard: SystemClipboard{},
		generator: utils.NewPasswordGenerator(nil),
		workers:   workers,
		out:       out,
		log:       log,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.commands = map[string]command{
		"create":      {1, 1, a.create},
		"list":        {0, 0, a.list},
		"delete":      {1, 1, a.deleteVault},
		"rename":      {2, 2, a.rename},
		"accounts":    {1, 1, a.accounts},
		"add":         {1, 1, a.add},
		"update":      {2, 2, a.update},
		"remove":      {2, 2, a.remove},
		"passwd":      {1, 1, a.passwd},
		"2fa-enable":  {1, 1, a.enableSecondFactor},
		"2fa-disable": {1, 1, a.disableSecondFactor},
		"backup":      {2, 2, a.backup},
		"restore":     {1, 2, a.restore},
		"copy":        {2, 2, a.copyPassword},
		"generate":    {0, 1, a.generate},
		"version":     {0, 0, a.version},
	}

	return a
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(app.MsgUsage)
		return ErrUsage
	}

	name, rest := args[0], args[1:]
	if name == "help" {
		a.println(app.MsgUsage)
		return nil
	}

	cmd, ok := a.commands[name]
	if !ok {
		a.println(app.MsgUsage)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if len(rest) < cmd.minArgs || len(rest) > cmd.maxArgs {
		a.println(app.MsgUsage)
		return fmt.Errorf("%w: %s expects %d..%d arguments, got %d", ErrUsage, name, cmd.minArgs, cmd.maxArgs, len(rest))
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("command", name).Msg("running command")

	if err := cmd.run(ctx, rest); err != nil {
		log.Err(err).Str("command", name).Msg("command failed")
		return err
	}
	return nil
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
