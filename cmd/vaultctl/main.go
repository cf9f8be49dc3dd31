// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-pass-vault/internal/cli"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// wipe locked key buffers on SIGINT/SIGTERM
	memguard.CatchInterrupt()

	// SafeExit purges locked buffers before exiting, on every path.
	memguard.SafeExit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one vaultctl invocation and returns the process exit code.
func run(osArgs []string, stdin *os.File, stdout, stderr io.Writer) int {
	cfg, args, err := config.GetStructuredConfig(osArgs)
	if err != nil {
		fmt.Fprintf(stderr, "error getting configs: %v\n", err)
		return 2
	}

	logger.SetLevel(cfg.Log.Level)
	log := logger.NewFileLogger("vaultctl", cfg.Log.File)
	ctx, _ := log.WithTraceID(context.Background())

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Err(err).Msg("create storage")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("close storage")
		}
	}()

	services, err := service.NewServices(storages, cfg.App, log, nil)
	if err != nil {
		log.Err(err).Msg("create services")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	app := cli.NewApp(services, cli.NewTerminalPrompter(stdin, stderr), stdout, cfg.Workers, log,
		cli.WithBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)),
	)

	if err = app.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
