// Package register adds resourcewatch to an MCP client configuration file.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Scope selects which client configuration file is edited.
type Scope string

const (
	// ScopeProject writes <directory>/.mcp.json and pins the server to that directory.
	ScopeProject Scope = "project"
	// ScopeUser writes ~/.claude.json.
	ScopeUser Scope = "user"
)

// ErrUnknownScope is returned for a scope other than project or user.
var ErrUnknownScope = errors.New("unknown scope")

// Options describes one registration.
type Options struct {
	Scope      Scope
	Directory  string   // project directory, defaults to "."
	ServerName string   // defaults to DeriveServerName of the binary
	BinaryPath string   // defaults to the running executable
	ServerArgs []string // extra arguments forwarded to the server
	Remove     bool     // remove the entry instead of adding it
}

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Result reports what Run changed.
type Result struct {
	ConfigPath string
	ServerName string
}

// Run applies options to the client configuration file.
func Run(options Options) (Result, error) {
	if options.Scope != ScopeProject && options.Scope != ScopeUser {
		return Result{}, fmt.Errorf("%w %q (must be %q or %q)", ErrUnknownScope, options.Scope, ScopeProject, ScopeUser)
	}

	binaryPath := options.BinaryPath
	if binaryPath == "" {
		detected, err := detectBinaryPath()
		if err != nil {
			return Result{}, err
		}
		binaryPath = detected
	}
	serverName := options.ServerName
	if serverName == "" {
		serverName = DeriveServerName(binaryPath)
	}

	configPath, projectDir, err := resolveConfigPath(options.Scope, options.Directory)
	if err != nil {
		return Result{}, err
	}

	update := func(servers map[string]any) {
		delete(servers, serverName)
	}
	if !options.Remove {
		serverArgs := options.ServerArgs
		if options.Scope == ScopeProject && !hasRootArg(serverArgs) {
			serverArgs = append([]string{"--root", projectDir}, serverArgs...)
		}
		entry := buildEntry(binaryPath, serverArgs)
		update = func(servers map[string]any) {
			servers[serverName] = entry
		}
	}

	if err := updateConfig(configPath, update); err != nil {
		return Result{}, err
	}
	return Result{ConfigPath: configPath, ServerName: serverName}, nil
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func hasRootArg(args []string) bool {
	for _, arg := range args {
		if arg == "--root" || strings.HasPrefix(arg, "--root=") {
			return true
		}
	}
	return false
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

// resolveConfigPath returns the config file and, for project scope, the absolute project directory.
func resolveConfigPath(scope Scope, directory string) (string, string, error) {
	if scope == ScopeProject {
		if directory == "" {
			directory = "."
		}
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), absDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), "", nil
}

func buildEntry(binaryPath string, serverArgs []string) serverEntry {
	if runtime.GOOS == "windows" {
		args := []string{"/C", binaryPath}
		args = append(args, serverArgs...)
		return serverEntry{Command: "cmd", Args: args}
	}
	return serverEntry{Command: binaryPath, Args: serverArgs}
}

// updateConfig loads configPath (or starts empty), lets update edit the
// mcpServers object, and writes the result back atomically. Other keys are preserved.
func updateConfig(configPath string, update func(servers map[string]any)) error {
	config := map[string]any{}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok || servers == nil {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	update(serversMap)

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	// Write to a temp file in the same directory, then rename over the original
	configDir := filepath.Dir(configPath)
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
