package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
)

const claudeServerName = "ytscrape"

var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Register the ytscrape MCP server with Claude Desktop",
	Long: `Add ytscrape to the mcpServers section of claude_desktop_config.json.

Other servers and settings in the file are kept. The server entry pins the
XDG directories so Claude Desktop sees the same config, API key file and
quota ledger as your shell.`,
	Example: `  # Register with the Claude Desktop installation of this machine
  ytscrape mcp setup-claude

  # Use a config file at a custom location
  ytscrape mcp setup-claude --config-path ~/claude/claude_desktop_config.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config-path")
		if configPath == "" {
			var err error
			if configPath, err = claudeDesktopConfigPath(runtime.GOOS); err != nil {
				return err
			}
		}

		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("getting executable path: %w", err)
		}
		if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
			return fmt.Errorf("resolving executable path: %w", err)
		}

		server := claudeServer{
			Command: execPath,
			Args:    []string{"mcp"},
			Env: map[string]string{
				"XDG_CONFIG_HOME": xdg.ConfigHome,
				"XDG_DATA_HOME":   xdg.DataHome,
				"XDG_CACHE_HOME":  xdg.CacheHome,
			},
		}
		if err := registerClaudeServer(configPath, claudeServerName, server); err != nil {
			return err
		}

		fmt.Printf("Added %q to %s\n", claudeServerName, configPath)
		fmt.Println("Restart Claude Desktop to load the ytscrape tools")
		return nil
	},
}

// claudeServer is one entry of the mcpServers map
type claudeServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// registerClaudeServer adds or replaces name in the mcpServers section of
// the Claude Desktop config at path. The file must already exist.
func registerClaudeServer(path, name string, server claudeServer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("Claude Desktop config not found at %s (start Claude Desktop once first)", path)
		}
		return fmt.Errorf("reading Claude Desktop config: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing Claude Desktop config: %w", err)
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc["mcpServers"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("parsing mcpServers: %w", err)
		}
	}

	entry, err := json.Marshal(server)
	if err != nil {
		return err
	}
	servers[name] = entry

	if doc["mcpServers"], err = json.Marshal(servers); err != nil {
		return err
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding Claude Desktop config: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("writing Claude Desktop config: %w", err)
	}
	return nil
}

// claudeDesktopConfigPath returns where Claude Desktop keeps its config on goos
func claudeDesktopConfigPath(goos string) (string, error) {
	const file = "claude_desktop_config.json"

	switch goos {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Claude", file), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Claude", file), nil
	case "linux":
		return filepath.Join(xdg.ConfigHome, "Claude", file), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", goos)
	}
}

func init() {
	setupClaudeCmd.Flags().String("config-path", "", "Path of claude_desktop_config.json (default: platform location)")
	mcpCmd.AddCommand(setupClaudeCmd)
}
