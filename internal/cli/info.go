package cli

import (
	"github.com/shayne-snap/envni/internal/display"

	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Get all available system information.",
		Args:  cobra.ArbitraryArgs,
		RunE:  a.runInfo,
	}
}

func (a *app) runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	th := a.theme(out)
	sys := a.newSystem(ctx, a.logger)

	display.Header(out, th)
	display.Runtime(out, th, sys.Runtime(), platform(sys.Runtime()))
	if err := display.Memory(out, th, a.memory(ctx, sys)); err != nil {
		return err
	}
	c := a.cpu(ctx, sys)
	if err := display.CPU(out, th, c); err != nil {
		return err
	}
	return display.CPUTimes(out, th, c)
}
