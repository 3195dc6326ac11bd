package sysinfo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Source is the host collaborator the System reads from.
type Source interface {
	// Memory returns total and free physical memory in bytes.
	Memory(ctx context.Context) (total, free uint64, err error)
	// Cores returns one descriptor per logical CPU.
	Cores(ctx context.Context) ([]Core, error)
	// LoadAvg returns the 1, 5 and 15 minute load averages.
	LoadAvg(ctx context.Context) ([3]float64, error)
	// ProcessSystemTime returns the current process's system-mode CPU time in microseconds.
	ProcessSystemTime(ctx context.Context) (uint64, error)
}

type hostSource struct {
	pid    int32
	info   func(context.Context) ([]cpu.InfoStat, error)
	times  func(context.Context, bool) ([]cpu.TimesStat, error)
	counts func(context.Context, bool) (int, error)
}

// HostSource returns a Source backed by gopsutil.
func HostSource() Source {
	return &hostSource{
		pid:    int32(os.Getpid()),
		info:   cpu.InfoWithContext,
		times:  cpu.TimesWithContext,
		counts: cpu.CountsWithContext,
	}
}

func (h *hostSource) Memory(ctx context.Context) (uint64, uint64, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("mem: %w", err)
	}
	return v.Total, v.Available, nil
}

var errNoCPUs = errors.New("no per-cpu times and no logical cpu count")

func (h *hostSource) Cores(ctx context.Context) ([]Core, error) {
	infos, err := h.info(ctx)
	if err != nil {
		return nil, fmt.Errorf("cpu info: %w", err)
	}
	times, err := h.times(ctx, true)
	if err == nil && len(times) > 0 {
		return coresFrom(infos, times, len(times)), nil
	}
	// Per-CPU times are not implemented everywhere (darwin without cgo).
	// The logical CPU count still gives one descriptor per core, with zero times.
	n, cerr := h.counts(ctx, true)
	if cerr != nil || n <= 0 {
		if err == nil {
			err = cmp.Or(cerr, errNoCPUs)
		}
		return nil, fmt.Errorf("cpu times: %w", err)
	}
	return coresFrom(infos, nil, n), nil
}

func (h *hostSource) LoadAvg(ctx context.Context) ([3]float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return [3]float64{}, fmt.Errorf("load: %w", err)
	}
	return [3]float64{avg.Load1, avg.Load5, avg.Load15}, nil
}

func (h *hostSource) ProcessSystemTime(ctx context.Context) (uint64, error) {
	p, err := process.NewProcessWithContext(ctx, h.pid)
	if err != nil {
		return 0, fmt.Errorf("process %d: %w", h.pid, err)
	}
	t, err := p.TimesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("process %d times: %w", h.pid, err)
	}
	return secondsTo(t.System, 1e6), nil
}

// coresFrom builds n descriptors, pairing per-CPU times with cpu.Info
// entries. Cores without a times entry get zero buckets. Platforms that report
// one Info entry per package reuse the last entry for the remaining cores.
func coresFrom(infos []cpu.InfoStat, times []cpu.TimesStat, n int) []Core {
	cores := make([]Core, 0, n)
	for i := 0; i < n; i++ {
		var t cpu.TimesStat
		if i < len(times) {
			t = times[i]
		}
		c := Core{
			Model: unknownModel,
			Times: CoreTimes{
				User: secondsTo(t.User, 1e3),
				Nice: secondsTo(t.Nice, 1e3),
				Sys:  secondsTo(t.System, 1e3),
				Idle: secondsTo(t.Idle, 1e3),
				IRQ:  secondsTo(t.Irq, 1e3),
			},
		}
		if len(infos) > 0 {
			info := infos[min(i, len(infos)-1)]
			c.Model = modelName(info)
			if info.Mhz > 0 {
				c.SpeedMHz = uint64(math.Round(info.Mhz))
			}
		}
		cores = append(cores, c)
	}
	return cores
}

func modelName(info cpu.InfoStat) string {
	if name := strings.TrimSpace(info.ModelName); name != "" {
		return name
	}
	if info.VendorID != "" {
		return info.VendorID
	}
	return unknownModel
}

func secondsTo(sec, scale float64) uint64 {
	if sec <= 0 {
		return 0
	}
	return uint64(math.Round(sec * scale))
}
