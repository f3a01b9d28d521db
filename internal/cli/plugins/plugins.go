// Package plugins runs external commitlens-<command> binaries for commands
// the CLI does not know, the way git and kubectl do.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "commitlens-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// SearchDirs returns the directories checked before PATH: the directory of
// the running binary, then ~/.commitlens/plugins.
func SearchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".commitlens", "plugins"))
	}
	return dirs
}

// FindPlugin returns the path of the commitlens-<command> binary.
func FindPlugin(command string) (string, error) {
	if command == "" || strings.ContainsAny(command, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrPluginNotFound, command)
	}
	name := Prefix + command

	for _, dir := range SearchDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPluginNotFound, name)
}

// Stdio is where a plugin's standard streams are connected.
type Stdio struct {
	In       io.Reader
	Out, Err io.Writer
}

// DefaultStdio is the calling process's own streams.
func DefaultStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Execute runs the plugin and returns its exit code. A plugin that cannot
// be started exits 1.
func Execute(ctx context.Context, pluginPath string, args []string, stdio Stdio) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...) // #nosec G204 -- plugin path comes from FindPlugin
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		_, _ = fmt.Fprintf(stdio.Err, "Error executing plugin: %v\n", err)
		return 1
	}
	return 0
}

// FormatNotFoundError explains where a plugin for command would be found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unknown command %q for \"commitlens\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as commitlens\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.commitlens/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'commitlens --help' for usage.")
	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0o111 != 0
}
