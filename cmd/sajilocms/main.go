// Command sajilocms is a terminal client for the Sajilo CMS clinic backend:
// sign in, inspect the session, and work with appointments, records,
// pharmacy and bills from the shell.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/sajilocms/sajilocms-go/config"
	"github.com/sajilocms/sajilocms-go/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Client *bootstrap.Client
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Observability)

	client, err := bootstrap.BuildClient(cfg, logger)
	if err != nil {
		logger.Error("build client failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal wiring failure to callers
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Client: client,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in with email and password",
			run:         runLogin,
		},
		"register": {
			name:        "register",
			description: "Create a patient account",
			run:         runRegister,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the current identity",
			run:         runWhoami,
		},
		"logout": {
			name:        "logout",
			description: "Sign out and clear the cached identity",
			run:         runLogout,
		},
		"doctors": {
			name:        "doctors",
			description: "List publicly available doctors",
			run:         runDoctors,
		},
		"appointments": {
			name:        "appointments",
			description: "List your appointments",
			run:         runAppointments,
		},
		"records": {
			name:        "records",
			description: "List medical records visible to you",
			run:         runRecords,
		},
		"pharmacy": {
			name:        "pharmacy",
			description: "List the medicine catalog",
			run:         runPharmacy,
		},
		"bills": {
			name:        "bills",
			description: "List your bills",
			run:         runBills,
		},
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: sajilocms <command> [flags]")
	fmt.Fprintln(os.Stderr)

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, cmds[name].description)
	}
	_ = w.Flush()
}
