// Package sysinfo queries the host for runtime identity, memory and CPU statistics.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrQuery marks a failed host query. The record returned alongside it is the degenerate one.
var ErrQuery = errors.New("host query failed")

// MemoryInfo holds physical memory in bytes.
type MemoryInfo struct {
	Total uint64
	Free  uint64
	Used  int64
}

// CPUStats holds time buckets in milliseconds, summed over all cores, and the load averages.
type CPUStats struct {
	User    uint64
	Nice    uint64
	Sys     uint64
	Idle    uint64
	IRQ     uint64
	LoadAvg [3]float64
}

// CPUInfo describes the machine's processors. Model and SpeedMHz come from the first core.
type CPUInfo struct {
	Model    string
	SpeedMHz uint64
	Cores    int
	Usage    uint64 // process system-mode CPU time, µs
	Times    CPUStats
}

// CoreTimes holds one core's time buckets in milliseconds.
type CoreTimes struct {
	User, Nice, Sys, Idle, IRQ uint64
}

// Core is a per-core descriptor.
type Core struct {
	Model    string
	SpeedMHz uint64
	Times    CoreTimes
}

const unknownModel = "unknown"

func unknownCPU() CPUInfo {
	return CPUInfo{Model: unknownModel}
}

// Options configures New. Zero fields select the host defaults.
type Options struct {
	Source Source
	Probes []Probe
	Logger *slog.Logger
}

// System answers memory and CPU queries. It is immutable after New.
type System struct {
	runtime RuntimeKind
	src     Source
	logger  *slog.Logger
}

// New resolves the runtime kind once and returns a System bound to it.
func New(ctx context.Context, opts Options) *System {
	src := opts.Source
	if src == nil {
		src = HostSource()
	}
	probes := opts.Probes
	if probes == nil {
		probes = DefaultProbes()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rt := DetectRuntime(ctx, probes)
	logger.Debug("runtime resolved", "runtime", rt.String())
	return &System{runtime: rt, src: src, logger: logger}
}

// Runtime returns the runtime kind resolved at construction.
func (s *System) Runtime() RuntimeKind {
	return s.runtime
}

// Memory returns total, free and used physical memory. Unknown runtimes get a zero record.
func (s *System) Memory(ctx context.Context) (MemoryInfo, error) {
	switch s.runtime {
	case RuntimeContainer, RuntimeNative:
	default:
		return MemoryInfo{}, nil
	}
	total, free, err := s.src.Memory(ctx)
	if err != nil {
		return MemoryInfo{}, fmt.Errorf("memory: %w: %w", ErrQuery, err)
	}
	s.logger.Debug("memory queried", "total", total, "free", free)
	return MemoryInfo{
		Total: total,
		Free:  free,
		Used:  int64(total) - int64(free),
	}, nil
}

// CPU returns the processor summary. Unknown runtimes get model "unknown" and zeros.
func (s *System) CPU(ctx context.Context) (CPUInfo, error) {
	if s.runtime == RuntimeUnknown {
		return unknownCPU(), nil
	}
	cores, err := s.src.Cores(ctx)
	if err != nil {
		return unknownCPU(), fmt.Errorf("cpu cores: %w: %w", ErrQuery, err)
	}
	loadAvg, err := s.src.LoadAvg(ctx)
	if err != nil {
		return unknownCPU(), fmt.Errorf("load average: %w: %w", ErrQuery, err)
	}
	usage, err := s.src.ProcessSystemTime(ctx)
	if err != nil {
		return unknownCPU(), fmt.Errorf("process cpu usage: %w: %w", ErrQuery, err)
	}

	info := CPUInfo{
		Model: unknownModel,
		Cores: len(cores),
		Usage: usage,
		Times: SumTimes(cores),
	}
	info.Times.LoadAvg = loadAvg
	if len(cores) > 0 {
		info.Model = cores[0].Model
		info.SpeedMHz = cores[0].SpeedMHz
	}
	s.logger.Debug("cpu queried", "cores", info.Cores, "model", info.Model)
	return info, nil
}

// SumTimes adds each time bucket across cores. LoadAvg is left zero.
func SumTimes(cores []Core) CPUStats {
	var st CPUStats
	for _, c := range cores {
		st.User += c.Times.User
		st.Nice += c.Times.Nice
		st.Sys += c.Times.Sys
		st.Idle += c.Times.Idle
		st.IRQ += c.Times.IRQ
	}
	return st
}
