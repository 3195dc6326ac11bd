package cli

import (
	"github.com/shayne-snap/envni/internal/display"

	"github.com/spf13/cobra"
)

func newCPUCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Get system CPU information.",
		Args:  cobra.ArbitraryArgs,
		RunE:  a.runCPU,
	}
}

func (a *app) runCPU(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	sys := a.newSystem(ctx, a.logger)
	return display.CPU(out, a.theme(out), a.cpu(ctx, sys))
}
