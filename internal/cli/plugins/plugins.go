// Package plugins runs external logtally-<command> executables for commands
// the CLI does not implement itself, the way git and kubectl do.
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
const Prefix = "logtally-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Plugin is an external command resolved on disk.
type Plugin struct {
	Name string
	Path string
}

// Stdio carries the streams handed to a plugin process.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// SearchDirs returns the directories searched before PATH, in order: the
// directory holding the running binary, then ~/.logtally/plugins.
func SearchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".logtally", "plugins"))
	}
	return dirs
}

// Find locates the plugin for command in dirs, then on PATH.
func Find(command string, dirs []string) (Plugin, error) {
	binary := Prefix + command

	for _, dir := range dirs {
		candidate := filepath.Join(dir, binary)
		if isExecutable(candidate) {
			return Plugin{Name: command, Path: candidate}, nil
		}
	}

	if path, err := exec.LookPath(binary); err == nil {
		return Plugin{Name: command, Path: path}, nil
	}

	return Plugin{}, fmt.Errorf("%w: %s", ErrPluginNotFound, binary)
}

// Run executes the plugin with args and returns its exit code. A plugin that
// cannot be started yields exit code 2.
func (p Plugin) Run(ctx context.Context, args []string, stdio Stdio) int {
	cmd := exec.CommandContext(ctx, p.Path, args...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	err := cmd.Run()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if stdio.Err != nil {
		fmt.Fprintf(stdio.Err, "Error: running plugin %s: %v\n", p.Name, err)
	}
	return 2
}

// NotFoundMessage explains where a plugin for command would be looked up.
func NotFoundMessage(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"logtally\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as logtally\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.logtally/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'logtally --help' for usage.")

	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
