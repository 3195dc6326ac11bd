package sysinfo

import (
	"context"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// RuntimeKind is the execution environment the process is hosted under.
type RuntimeKind int

const (
	RuntimeUnknown RuntimeKind = iota
	RuntimeContainer
	RuntimeNative
)

func (k RuntimeKind) String() string {
	switch k {
	case RuntimeContainer:
		return "container"
	case RuntimeNative:
		return "native"
	default:
		return "unknown"
	}
}

// Probe reports whether its runtime kind is present.
type Probe struct {
	Kind    RuntimeKind
	Present func(ctx context.Context) bool
}

// DetectRuntime returns the kind of the first probe that reports presence, or RuntimeUnknown.
func DetectRuntime(ctx context.Context, probes []Probe) RuntimeKind {
	for _, p := range probes {
		if p.Present != nil && p.Present(ctx) {
			return p.Kind
		}
	}
	return RuntimeUnknown
}

// DefaultProbes checks for a container first, then for a natively supported OS.
func DefaultProbes() []Probe {
	return []Probe{
		{Kind: RuntimeContainer, Present: containerProbe{
			getenv:         os.Getenv,
			exists:         fileExists,
			virtualization: host.VirtualizationWithContext,
		}.present},
		{Kind: RuntimeNative, Present: func(context.Context) bool {
			return nativeOS(runtime.GOOS, runtime.GOARCH)
		}},
	}
}

var containerFiles = []string{"/.dockerenv", "/run/.containerenv"}

var containerEnv = []string{"container", "KUBERNETES_SERVICE_HOST"}

var containerSystems = map[string]bool{
	"docker":         true,
	"lxc":            true,
	"podman":         true,
	"rkt":            true,
	"systemd-nspawn": true,
	"openvz":         true,
	"linux-vserver":  true,
}

type containerProbe struct {
	getenv         func(string) string
	exists         func(string) bool
	virtualization func(context.Context) (string, string, error)
}

func (p containerProbe) present(ctx context.Context) bool {
	if !nativeOS(runtime.GOOS, runtime.GOARCH) {
		return false
	}
	for _, k := range containerEnv {
		if p.getenv(k) != "" {
			return true
		}
	}
	for _, f := range containerFiles {
		if p.exists(f) {
			return true
		}
	}
	system, role, err := p.virtualization(ctx)
	if err != nil {
		return false
	}
	return role == "guest" && containerSystems[system]
}

// nativeOS reports whether gopsutil has a real implementation for the platform.
func nativeOS(goos, goarch string) bool {
	if goarch == "wasm" {
		return false
	}
	switch goos {
	case "linux", "darwin", "windows", "freebsd", "openbsd", "netbsd", "solaris", "aix":
		return true
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
