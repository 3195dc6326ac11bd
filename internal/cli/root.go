package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/shayne-snap/envni/internal/config"
	"github.com/shayne-snap/envni/internal/display"
	"github.com/shayne-snap/envni/internal/sysinfo"

	"github.com/spf13/cobra"
)

// errVersionShown stops dispatch after --version has been printed.
var errVersionShown = errors.New("version shown")

// app carries what every command needs. Tests swap newSystem for a fake host.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	newSystem func(ctx context.Context, logger *slog.Logger) *sysinfo.System
}

func defaultSystem(ctx context.Context, logger *slog.Logger) *sysinfo.System {
	return sysinfo.New(ctx, sysinfo.Options{Logger: logger})
}

func newRootCmd(a *app) *cobra.Command {
	var showVersion bool
	root := &cobra.Command{
		Use:                "envni [command]",
		Short:              "Show runtime, memory and CPU information for this machine",
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				display.Version(cmd.OutOrStdout(), resolveVersion())
				return errVersionShown
			}
			return nil
		},
		RunE: a.runRoot,
	}
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show the version number.")
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := display.Help(cmd.OutOrStdout(), a.theme(cmd.OutOrStdout())); err != nil {
			a.logger.Error("could not print help", "error", err)
		}
	})
	// "help" is not one of envni's commands; route it through the unknown-command path.
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.unknownCommand(cmd, "help")
		},
	})
	root.AddCommand(newInfoCmd(a), newMemoryCmd(a), newCPUCmd(a))
	for _, c := range root.Commands() {
		c.FParseErrWhitelist = root.FParseErrWhitelist
	}
	return root
}

// Execute runs envni against os.Args. Returns error for exit code handling.
func Execute() error {
	cfg := config.FromEnv()
	a := &app{
		cfg:       cfg,
		logger:    NewLogger(os.Stderr, cfg.LogLevel),
		newSystem: defaultSystem,
	}
	return a.run(context.Background(), newRootCmd(a), os.Args[1:])
}

func (a *app) run(ctx context.Context, root *cobra.Command, args []string) error {
	args, unknown := dispatchArgs(args)
	if unknown != "" {
		return a.unknownCommand(root, unknown)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if errors.Is(err, errVersionShown) {
		return nil
	}
	return err
}

// dispatchArgs applies envni's argument rules before cobra sees them. A
// literal help flag anywhere wins, then a literal version flag; otherwise the
// first argument names the command. A first argument cobra would consume as
// a flag or as its completion entry point is returned as unknown.
func dispatchArgs(args []string) (normalized []string, unknown string) {
	switch {
	case slices.Contains(args, "--help") || slices.Contains(args, "-h"):
		return []string{"--help"}, ""
	case slices.Contains(args, "--version") || slices.Contains(args, "-v"):
		return []string{"--version"}, ""
	case len(args) == 0:
		return []string{}, ""
	}
	first := args[0]
	if strings.HasPrefix(first, "-") || first == cobra.ShellCompRequestCmd || first == cobra.ShellCompNoDescRequestCmd {
		return nil, first
	}
	return args, ""
}

func (a *app) runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return a.unknownCommand(cmd, args[0])
}

func (a *app) unknownCommand(cmd *cobra.Command, name string) error {
	display.UnknownCommand(cmd.ErrOrStderr(), a.theme(cmd.ErrOrStderr()), name)
	return cmd.Root().Help()
}
