package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/shayne-snap/envni/internal/display"
	"github.com/shayne-snap/envni/internal/sysinfo"
)

func (a *app) theme(w io.Writer) *display.Theme {
	return display.NewTheme(w, a.cfg.Color)
}

// memory queries the facade. Failures are logged; the zero record makes the display say so.
func (a *app) memory(ctx context.Context, sys *sysinfo.System) sysinfo.MemoryInfo {
	m, err := sys.Memory(ctx)
	if err != nil {
		a.logger.Warn("could not read memory", "error", err)
	}
	return m
}

func (a *app) cpu(ctx context.Context, sys *sysinfo.System) sysinfo.CPUInfo {
	c, err := sys.CPU(ctx)
	if err != nil {
		a.logger.Warn("could not read cpu", "error", err)
	}
	return c
}

func platform(kind sysinfo.RuntimeKind) string {
	if kind == sysinfo.RuntimeUnknown {
		return ""
	}
	return fmt.Sprintf("%s/%s, %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
