package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/shayne-snap/envni/internal/config"
	"github.com/shayne-snap/envni/internal/sysinfo"
)

type stubSource struct {
	total, free uint64
	cores       []sysinfo.Core
	err         error
}

func (s *stubSource) Memory(context.Context) (uint64, uint64, error) {
	return s.total, s.free, s.err
}

func (s *stubSource) Cores(context.Context) ([]sysinfo.Core, error) {
	return s.cores, s.err
}

func (s *stubSource) LoadAvg(context.Context) ([3]float64, error) {
	return [3]float64{0.5, 0.75, 1}, s.err
}

func (s *stubSource) ProcessSystemTime(context.Context) (uint64, error) {
	return 777, s.err
}

func healthyHost() *stubSource {
	return &stubSource{
		total: 2147483648,
		free:  1 << 30,
		cores: []sysinfo.Core{
			{Model: "Test CPU", SpeedMHz: 3000, Times: sysinfo.CoreTimes{User: 100, Idle: 900}},
			{Model: "Test CPU", SpeedMHz: 3000, Times: sysinfo.CoreTimes{User: 200, Idle: 800}},
		},
	}
}

func probesFor(kind sysinfo.RuntimeKind) []sysinfo.Probe {
	if kind == sysinfo.RuntimeUnknown {
		return []sysinfo.Probe{}
	}
	return []sysinfo.Probe{{Kind: kind, Present: func(context.Context) bool { return true }}}
}

type result struct {
	stdout, stderr string
	err            error
}

func execute(t *testing.T, src sysinfo.Source, kind sysinfo.RuntimeKind, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		cfg:    config.Config{LogLevel: slog.LevelWarn, Color: config.ColorNever},
		logger: slog.New(slog.NewJSONHandler(&stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		newSystem: func(ctx context.Context, logger *slog.Logger) *sysinfo.System {
			return sysinfo.New(ctx, sysinfo.Options{Source: src, Probes: probesFor(kind), Logger: logger})
		},
	}
	root := newRootCmd(a)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := a.run(context.Background(), root, args)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func helpText(t *testing.T) string {
	t.Helper()
	return execute(t, healthyHost(), sysinfo.RuntimeNative, "--help").stdout
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd(&app{})
	want := map[string]bool{"info": true, "memory": true, "cpu": true}
	got := make(map[string]bool)
	for _, c := range root.Commands() {
		got[c.Name()] = true
	}
	for name := range want {
		if !got[name] {
			t.Errorf("root missing subcommand %q", name)
		}
	}
	if got["completion"] {
		t.Error("completion command should be disabled")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	root := newRootCmd(&app{})
	v := root.PersistentFlags().Lookup("version")
	if v == nil || v.Shorthand != "v" {
		t.Error("root missing -v/--version flag")
	}
}

func TestHelp(t *testing.T) {
	help := helpText(t)
	if !strings.Contains(help, "Usage: envni [command]") {
		t.Fatalf("help output = %q", help)
	}
	tests := []struct {
		name string
		args []string
	}{
		{"short flag", []string{"-h"}},
		{"no arguments", nil},
		{"help beats version", []string{"--version", "--help"}},
		{"short help beats short version", []string{"-v", "-h"}},
		{"help after command", []string{"info", "--help"}},
		{"help after unknown command", []string{"foo", "-h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, healthyHost(), sysinfo.RuntimeNative, tt.args...)
			if r.err != nil {
				t.Fatalf("err = %v", r.err)
			}
			if r.stdout != help {
				t.Errorf("stdout = %q, want help text %q", r.stdout, help)
			}
			if r.stderr != "" {
				t.Errorf("stderr = %q, want empty", r.stderr)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	old := Version
	Version = "1.2.3"
	defer func() { Version = old }()

	for _, args := range [][]string{{"--version"}, {"-v"}, {"info", "-v"}, {"foo", "--version"}} {
		r := execute(t, healthyHost(), sysinfo.RuntimeNative, args...)
		if r.err != nil {
			t.Fatalf("%v: err = %v", args, r.err)
		}
		if r.stdout != "1.2.3\n" {
			t.Errorf("%v: stdout = %q, want version line", args, r.stdout)
		}
	}
}

func TestResolveVersion_Default(t *testing.T) {
	old := Version
	Version = ""
	defer func() { Version = old }()
	if got := resolveVersion(); got == "" {
		t.Error("resolveVersion returned empty string")
	}
}

func TestUnknownCommand(t *testing.T) {
	help := helpText(t)
	for _, name := range []string{"foo", "help"} {
		r := execute(t, healthyHost(), sysinfo.RuntimeNative, name)
		if r.err != nil {
			t.Fatalf("%s: err = %v, want nil (exit 0)", name, r.err)
		}
		if !strings.Contains(r.stderr, `Unknown command "`+name+`"`) {
			t.Errorf("%s: stderr = %q", name, r.stderr)
		}
		if r.stdout != help {
			t.Errorf("%s: stdout = %q, want help text", name, r.stdout)
		}
	}
}

func TestUnknownCommand_LeadingFlag(t *testing.T) {
	help := helpText(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--bogus"}, "--bogus"},
		{[]string{"-x"}, "-x"},
		{[]string{"--bogus", "info"}, "--bogus"},
		{[]string{"-vh"}, "-vh"},
		{[]string{"--"}, "--"},
		{[]string{"__complete", ""}, "__complete"},
		{[]string{"__completeNoDesc", "m"}, "__completeNoDesc"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			r := execute(t, healthyHost(), sysinfo.RuntimeNative, tt.args...)
			if r.err != nil {
				t.Fatalf("err = %v, want nil (exit 0)", r.err)
			}
			if !strings.Contains(r.stderr, `Unknown command "`+tt.want+`"`) {
				t.Errorf("stderr = %q", r.stderr)
			}
			if r.stdout != help {
				t.Errorf("stdout = %q, want help text", r.stdout)
			}
		})
	}
}

func TestTrailingFlagIgnored(t *testing.T) {
	r := execute(t, healthyHost(), sysinfo.RuntimeNative, "memory", "--bogus")
	if r.err != nil {
		t.Fatalf("err = %v", r.err)
	}
	if !strings.Contains(r.stdout, "Total: 2.00 GB") {
		t.Errorf("stdout = %q", r.stdout)
	}
	if strings.Contains(r.stderr, "Unknown command") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestDispatchArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantArgs    []string
		wantUnknown string
	}{
		{"empty", nil, []string{}, ""},
		{"command", []string{"cpu"}, []string{"cpu"}, ""},
		{"help anywhere", []string{"__complete", "-h"}, []string{"--help"}, ""},
		{"help beats version", []string{"-v", "--help"}, []string{"--help"}, ""},
		{"version", []string{"memory", "-v"}, []string{"--version"}, ""},
		{"leading flag", []string{"--color", "cpu"}, nil, "--color"},
		{"completion entry", []string{"__complete", "info"}, nil, "__complete"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unknown := dispatchArgs(tt.args)
			if unknown != tt.wantUnknown {
				t.Errorf("unknown = %q, want %q", unknown, tt.wantUnknown)
			}
			if !slices.Equal(got, tt.wantArgs) {
				t.Errorf("args = %q, want %q", got, tt.wantArgs)
			}
			if tt.wantArgs != nil && got == nil {
				t.Error("args = nil, cobra would fall back to os.Args")
			}
		})
	}
}

func TestMemoryCmd(t *testing.T) {
	r := execute(t, healthyHost(), sysinfo.RuntimeNative, "memory")
	if r.err != nil {
		t.Fatalf("err = %v", r.err)
	}
	for _, want := range []string{"Total: 2.00 GB", "Used:  1.00 GB", "Free:  1.00 GB"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("stdout missing %q: %s", want, r.stdout)
		}
	}
	if strings.Contains(r.stdout, "CPU:") {
		t.Errorf("memory command printed CPU block: %s", r.stdout)
	}
}

func TestCPUCmd(t *testing.T) {
	r := execute(t, healthyHost(), sysinfo.RuntimeContainer, "cpu")
	if r.err != nil {
		t.Fatalf("err = %v", r.err)
	}
	for _, want := range []string{"Model: Test CPU", "Cores: 2", "Speed: 3000 MHz", "0.5, 0.75, 1"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("stdout missing %q: %s", want, r.stdout)
		}
	}
	if strings.Contains(r.stdout, "Memory:") {
		t.Errorf("cpu command printed memory block: %s", r.stdout)
	}
}

func TestInfoCmd_Order(t *testing.T) {
	r := execute(t, healthyHost(), sysinfo.RuntimeContainer, "info")
	if r.err != nil {
		t.Fatalf("err = %v", r.err)
	}
	rt := strings.Index(r.stdout, "Runtime:")
	mem := strings.Index(r.stdout, "Memory:")
	cpu := strings.Index(r.stdout, "CPU:")
	times := strings.Index(r.stdout, "CPU Times")
	if rt < 0 || mem < 0 || cpu < 0 || times < 0 {
		t.Fatalf("info output incomplete: %s", r.stdout)
	}
	if !(rt < mem && mem < cpu && cpu < times) {
		t.Errorf("info blocks out of order: runtime %d memory %d cpu %d times %d", rt, mem, cpu, times)
	}
	if !strings.Contains(r.stdout, "› container (") {
		t.Errorf("runtime line missing: %s", r.stdout)
	}
}

func TestInfoCmd_UnknownRuntime(t *testing.T) {
	r := execute(t, healthyHost(), sysinfo.RuntimeUnknown, "info")
	if r.err != nil {
		t.Fatalf("err = %v", r.err)
	}
	for _, want := range []string{"› unknown\n", "Could not retrieve memory information.", "Could not retrieve CPU information."} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("stdout missing %q: %s", want, r.stdout)
		}
	}
	if strings.Contains(r.stdout, "CPU Times") {
		t.Errorf("times table printed for unknown runtime: %s", r.stdout)
	}
	if r.stderr != "" {
		t.Errorf("unknown runtime should not log warnings: %q", r.stderr)
	}
}

func TestQueryFailure_LoggedNotFatal(t *testing.T) {
	src := healthyHost()
	src.err = errors.New("permission denied")
	r := execute(t, src, sysinfo.RuntimeNative, "memory")
	if r.err != nil {
		t.Fatalf("err = %v, want nil", r.err)
	}
	if !strings.Contains(r.stdout, "Could not retrieve memory information.") {
		t.Errorf("stdout = %q", r.stdout)
	}
	if !strings.Contains(r.stderr, "permission denied") || !strings.Contains(r.stderr, `"level":"WARN"`) {
		t.Errorf("stderr should carry a warn log with the cause: %q", r.stderr)
	}
}
