// Package display renders envni's help, memory, CPU and runtime blocks.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/olekukonko/tablewriter"

	"github.com/shayne-snap/envni/internal/sysinfo"
)

const gb = 1024 * 1024 * 1024

var (
	helpTpl   *template.Template
	memoryTpl *template.Template
	cpuTpl    *template.Template
)

func init() {
	helpTpl = template.Must(template.New("help").Parse(
		`
{{.Usage}} {{.Synopsis}}

{{.Commands}}
  {{.Info}}       Get all available system information.
  {{.Memory}}     Get system memory information.
  {{.CPU}}        Get system CPU information.

{{.Options}}
  {{.Help}}     Show this help message.
  {{.Version}}  Show the version number.

`))
	memoryTpl = template.Must(template.New("memory").Parse(
		`
{{.Title}}
  › Total: {{.Total}}
  › Used:  {{.Used}}
  › Free:  {{.Free}}

`))
	cpuTpl = template.Must(template.New("cpu").Parse(
		`
{{.Title}}
  › Model: {{.Model}}
  › Cores: {{.Cores}}
  › Speed: {{.Speed}}
  › Load Average (1m, 5m, 15m): {{.LoadAvg}}

`))
}

// Help prints the usage text.
func Help(out io.Writer, th *Theme) error {
	return helpTpl.Execute(out, map[string]string{
		"Usage":    th.bright.Render("Usage:"),
		"Synopsis": th.value.Render("envni [command]"),
		"Commands": th.bright.Render("Commands:"),
		"Info":     th.command.Render("info"),
		"Memory":   th.command.Render("memory"),
		"CPU":      th.command.Render("cpu"),
		"Options":  th.bright.Render("Options:"),
		"Help":     th.option.Render("--help, -h"),
		"Version":  th.option.Render("--version, -v"),
	})
}

// Version prints the version string on its own line.
func Version(out io.Writer, version string) {
	fmt.Fprintln(out, version)
}

// UnknownCommand prints the error line for an unrecognized command.
func UnknownCommand(out io.Writer, th *Theme, command string) {
	fmt.Fprintf(out, "%s Unknown command %q\n", th.errTag.Render("Error:"), command)
}

// Header prints the title that opens the info command's output.
func Header(out io.Writer, th *Theme) {
	fmt.Fprintf(out, "\n%s\n", th.heading.Render("🌐 System Information"))
}

// Runtime prints the runtime kind and, when non-empty, a detail such as the platform.
func Runtime(out io.Writer, th *Theme, kind sysinfo.RuntimeKind, detail string) {
	line := kind.String()
	if detail != "" {
		line += " (" + detail + ")"
	}
	fmt.Fprintf(out, "\n%s\n  › %s\n", th.section.Render("📊 Runtime:"), th.free.Render(line))
}

// Memory prints the memory block. A zero total means the values could not be retrieved.
func Memory(out io.Writer, th *Theme, m sysinfo.MemoryInfo) error {
	title := th.section.Render("💾 Memory:")
	if m.Total == 0 {
		_, err := fmt.Fprintf(out, "%s\n  › %s\n", title, th.errText.Render("Could not retrieve memory information."))
		return err
	}
	return memoryTpl.Execute(out, map[string]string{
		"Title": title,
		"Total": th.value.Render(FormatGB(float64(m.Total))),
		"Used":  th.used.Render(FormatGB(float64(m.Used))),
		"Free":  th.free.Render(FormatGB(float64(m.Free))),
	})
}

// CPU prints the CPU block. Zero cores means the values could not be retrieved.
func CPU(out io.Writer, th *Theme, c sysinfo.CPUInfo) error {
	title := th.section.Render("🧠 CPU:")
	if c.Cores == 0 {
		_, err := fmt.Fprintf(out, "%s\n  › %s\n", title, th.errText.Render("Could not retrieve CPU information."))
		return err
	}
	return cpuTpl.Execute(out, map[string]string{
		"Title":   title,
		"Model":   th.value.Render(c.Model),
		"Cores":   th.value.Render(strconv.Itoa(c.Cores)),
		"Speed":   th.value.Render(fmt.Sprintf("%d MHz", c.SpeedMHz)),
		"LoadAvg": th.value.Render(FormatLoadAvg(c.Times.LoadAvg)),
	})
}

// CPUTimes prints the summed time buckets as a table. Nothing is printed when there are no cores.
func CPUTimes(out io.Writer, th *Theme, c sysinfo.CPUInfo) error {
	if c.Cores == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(out, "%s\n", th.section.Render("⏱  CPU Times (ms, all cores):")); err != nil {
		return err
	}
	tbl := tablewriter.NewWriter(out)
	tbl.Header("User", "Nice", "Sys", "Idle", "IRQ", "Process Sys (µs)")
	err := tbl.Append([]string{
		strconv.FormatUint(c.Times.User, 10),
		strconv.FormatUint(c.Times.Nice, 10),
		strconv.FormatUint(c.Times.Sys, 10),
		strconv.FormatUint(c.Times.Idle, 10),
		strconv.FormatUint(c.Times.IRQ, 10),
		strconv.FormatUint(c.Usage, 10),
	})
	if err != nil {
		return fmt.Errorf("cpu times table: %w", err)
	}
	if err := tbl.Render(); err != nil {
		return fmt.Errorf("cpu times table: %w", err)
	}
	_, err = fmt.Fprintln(out)
	return err
}

// FormatGB converts bytes to gigabytes (1024^3) with two decimals.
func FormatGB(bytes float64) string {
	return fmt.Sprintf("%.2f GB", bytes/gb)
}

// FormatLoadAvg joins the 1, 5 and 15 minute load averages with ", ".
func FormatLoadAvg(avg [3]float64) string {
	parts := make([]string, len(avg))
	for i, v := range avg {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
