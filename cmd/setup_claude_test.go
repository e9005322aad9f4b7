package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterClaudeServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_desktop_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "globalShortcut": "Ctrl+Space",
  "mcpServers": {
    "filesystem": {"command": "npx", "args": ["-y", "@modelcontextprotocol/server-filesystem"]}
  }
}`), 0644))

	server := claudeServer{Command: "/usr/local/bin/ytscrape", Args: []string{"mcp"}, Env: map[string]string{"XDG_DATA_HOME": "/data"}}
	require.NoError(t, registerClaudeServer(path, "ytscrape", server))

	var doc struct {
		GlobalShortcut string                  `json:"globalShortcut"`
		MCPServers     map[string]claudeServer `json:"mcpServers"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Ctrl+Space", doc.GlobalShortcut, "unrelated settings survive")
	assert.Equal(t, "npx", doc.MCPServers["filesystem"].Command)
	assert.Equal(t, server, doc.MCPServers["ytscrape"])

	server.Command = "/opt/ytscrape"
	require.NoError(t, registerClaudeServer(path, "ytscrape", server))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "/opt/ytscrape", doc.MCPServers["ytscrape"].Command)
	assert.Len(t, doc.MCPServers, 2)
}

func TestRegisterClaudeServerWithoutServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_desktop_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	require.NoError(t, registerClaudeServer(path, "ytscrape", claudeServer{Command: "ytscrape", Args: []string{"mcp"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ytscrape"`)
	assert.NotContains(t, string(data), `"env"`)
}

func TestRegisterClaudeServerErrors(t *testing.T) {
	dir := t.TempDir()

	err := registerClaudeServer(filepath.Join(dir, "missing.json"), "ytscrape", claudeServer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"mcpServers": [1, 2]}`), 0644))
	assert.Error(t, registerClaudeServer(bad, "ytscrape", claudeServer{}))
}

func TestClaudeDesktopConfigPath(t *testing.T) {
	t.Setenv("APPDATA", `C:\Users\me\AppData\Roaming`)
	path, err := claudeDesktopConfigPath("windows")
	require.NoError(t, err)
	assert.Equal(t, "claude_desktop_config.json", filepath.Base(path))

	path, err = claudeDesktopConfigPath("linux")
	require.NoError(t, err)
	assert.Equal(t, "Claude", filepath.Base(filepath.Dir(path)))

	_, err = claudeDesktopConfigPath("plan9")
	assert.Error(t, err)
}
