package cli

import (
	"github.com/shayne-snap/envni/internal/display"

	"github.com/spf13/cobra"
)

func newMemoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "Get system memory information.",
		Args:  cobra.ArbitraryArgs,
		RunE:  a.runMemory,
	}
}

func (a *app) runMemory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	sys := a.newSystem(ctx, a.logger)
	return display.Memory(out, a.theme(out), a.memory(ctx, sys))
}
