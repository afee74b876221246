// Command plugins-check resolves the gateway plugin configuration and prints
// the resulting slot bindings and enablement decisions. It exits non-zero
// when a slot's selected plugin resolves to disabled, which makes it suitable
// as a deployment preflight.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"slotgate/internal/configio"
	"slotgate/internal/core"
	"slotgate/internal/journal"
	"slotgate/internal/manifest"
	"slotgate/pkg/plugincfg"
)

var exitFunc = os.Exit

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Environ(), os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args, environ []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plugins-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath string
		asJSON     bool
		useJournal bool
		publish    bool
	)
	fs.StringVar(&configPath, "config", "config.json", "path to the gateway config file (json or yaml)")
	fs.BoolVar(&asJSON, "json", false, "emit the activation report as JSON")
	fs.BoolVar(&useJournal, "journal", false, "record decisions to the configured journal backend")
	fs.BoolVar(&publish, "publish", false, "publish the report to the configured manifest store")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	report, err := run(context.Background(), configPath, environ, useJournal, logger)
	if err != nil {
		logger.Error("activation failed", "error", err)
		return 2
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			logger.Error("encode report", "error", err)
			return 2
		}
	} else {
		printReport(stdout, report)
	}

	if publish {
		store, err := manifest.Open(context.Background())
		if err != nil {
			logger.Error("open manifest store", "error", err)
			return 2
		}
		info, err := manifest.NewPublisher(store).Publish(context.Background(), report)
		if err != nil {
			logger.Error("publish report", "error", err)
			return 2
		}
		logger.Info("report published", "key", info.Key, "driver", store.Driver())
	}

	if degradedSlots(report) > 0 {
		return 1
	}
	return 0
}

// run loads the configuration, applies environment overrides, and activates.
func run(ctx context.Context, configPath string, environ []string, useJournal bool, logger *slog.Logger) (core.ActivationReport, error) {
	raw, err := configio.Load(configPath)
	if err != nil {
		return core.ActivationReport{}, err
	}
	raw = configio.ApplyEnv(raw, environ)

	svc := core.NewDefaultService()
	svc.SetLogger(logger)
	if useJournal {
		j, err := journal.Open(ctx)
		if err != nil {
			return core.ActivationReport{}, fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if cerr := j.Close(); cerr != nil {
				logger.Warn("close journal", "error", cerr)
			}
		}()
		svc.SetJournal(j)
	}

	return svc.Activate(ctx, raw), nil
}

// degradedSlots counts slots whose selected plugin resolved to disabled.
// Slots the operator disabled on purpose do not count.
func degradedSlots(report core.ActivationReport) int {
	n := 0
	for _, b := range report.Slots {
		if b.Disabled && b.Reason != core.ReasonSlotDisabled {
			n++
		}
	}
	return n
}

func printReport(w io.Writer, report core.ActivationReport) {
	fmt.Fprintln(w, "Slots:")
	for _, b := range report.Slots {
		switch {
		case b.Disabled && b.Reason == core.ReasonSlotDisabled:
			fmt.Fprintf(w, "  %-12s (disabled)\n", b.Slot)
		case b.Disabled:
			fmt.Fprintf(w, "  %-12s %s  DEGRADED: %s\n", b.Slot, b.Plugin, b.Reason)
		default:
			fmt.Fprintf(w, "  %-12s %s\n", b.Slot, b.Plugin)
		}
	}

	fmt.Fprintln(w, "Plugins:")
	for _, d := range report.Plugins {
		state := "enabled"
		if !d.Decision.Enabled {
			state = "disabled"
			if d.Decision.Reason != "" {
				state += " (" + d.Decision.Reason + ")"
			}
		}
		fmt.Fprintf(w, "  %-24s tier=%-8s %s\n", d.Plugin, tierLabel(d.Tier), state)
	}
}

func tierLabel(tier plugincfg.Tier) string {
	if tier == "" {
		return string(core.TierExternal)
	}
	return string(tier)
}
