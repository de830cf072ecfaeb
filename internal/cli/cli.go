// Package cli wires configuration, storage and the focus components into
// the focuslock command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/config"
	"github.com/sadopc/focuslock/internal/logging"
)

// runtime is shared by every command: it is filled in by the root
// PersistentPreRunE and released when the command's RunE returns.
type runtime struct {
	cfg     *config.Config
	svc     *services
	logFile *os.File
}

func New(version string) *cobra.Command {
	cmd, _ := newRoot(version)
	return cmd
}

func newRoot(version string) (*cobra.Command, *runtime) {
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:   "focuslock",
		Short: "Block distracting apps while you focus and review your focus history.",
		Long: `focuslock keeps a list of apps to block, toggles focus mode by hand or
with a registered NFC tag, and records every focus session.

Run without arguments to open the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(rt)
		},
	}

	AddCommands(cmd, rt, version)
	releaseAfterRun(cmd, rt)
	return cmd, rt
}

func AddCommands(topLevel *cobra.Command, rt *runtime, version string) {
	addUI(topLevel, rt)
	addApps(topLevel, rt)
	addSessions(topLevel, rt)
	addFocus(topLevel, rt)
	addTags(topLevel, rt)
	addSettings(topLevel, rt)
	addVersion(topLevel, version)
}

// releaseAfterRun wraps every RunE in the tree so the runtime is closed
// after the command returns. Cobra skips post-run hooks when RunE fails.
func releaseAfterRun(cmd *cobra.Command, rt *runtime) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if cerr := rt.close(); err == nil {
				err = cerr
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		releaseAfterRun(sub, rt)
	}
}

// interactive reports whether cmd hands the terminal to the TUI.
func interactive(cmd *cobra.Command) bool {
	return cmd.Name() == "ui" || !cmd.HasParent()
}

// needsServices is false for commands that never touch storage.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help":
		return false
	}
	return !cmd.HasParent() || cmd.Parent().Name() != "completion"
}

func (rt *runtime) open(cmd *cobra.Command) error {
	if !needsServices(cmd) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rt.cfg = cfg

	var logOut io.Writer = cmd.ErrOrStderr()
	if interactive(cmd) && cfg.Backend != config.BackendMemory {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		rt.logFile = f
		logOut = f
	} else if interactive(cmd) {
		logOut = io.Discard
	}
	logging.InitLoggerTo(logOut, cfg.LogLevel, cfg.LogFormat)

	svc, err := openServices(cfg, logging.Logger)
	if err != nil {
		rt.close()
		return err
	}
	rt.svc = svc
	return nil
}

func (rt *runtime) close() error {
	var err error
	if rt.svc != nil {
		err = rt.svc.Close()
		rt.svc = nil
	}
	if rt.logFile != nil {
		rt.logFile.Close()
		rt.logFile = nil
	}
	return err
}
