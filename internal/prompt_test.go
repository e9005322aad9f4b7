package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLikelyFilePath(t *testing.T) {
	assert.True(t, IsLikelyFilePath("./prompt.txt"))
	assert.True(t, IsLikelyFilePath("prompts/insights"))
	assert.True(t, IsLikelyFilePath("insights.tmpl"))
	assert.True(t, IsLikelyFilePath("insights"))
	assert.False(t, IsLikelyFilePath("Summarize these {{.VideoCount}} videos"))
	assert.False(t, IsLikelyFilePath(strings.Repeat("x", 201)))
}

func TestCreatePromptFromString(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "Query {{.Query}}: {{.VideoCount}} videos, {{.TotalViews}} views")

	prompt, err := pm.CreatePrompt(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "Query golang tutorial: 5 videos, 505,000 views", prompt)
}

func TestCreatePromptFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.txt")
	require.NoError(t, os.WriteFile(path, []byte("{{.Videos}}"), 0644))

	pm := NewPromptManager(t.TempDir(), path)
	prompt, err := pm.CreatePrompt(sampleResult())
	require.NoError(t, err)

	lines := strings.Split(prompt, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "- 250,000 | Very Long Video | GopherCon | Go concurrency patterns", lines[0])
	assert.Equal(t, "- 5,000 | Long Video | CodeTalk | Building a CLI in Go", lines[4])
}

func TestCreatePromptDefaults(t *testing.T) {
	configDir := t.TempDir()
	pm := NewPromptManager(configDir, "")

	prompt, err := pm.CreatePrompt(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, prompt, "Query: golang tutorial")
	assert.Contains(t, prompt, "Videos after filtering: 5")

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "prompt.txt"), []byte("custom {{.VideoCount}}"), 0644))
	prompt, err = pm.CreatePrompt(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "custom 5", prompt)
}

func TestCreatePromptInvalidTemplate(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "broken {{.Query")
	_, err := pm.CreatePrompt(sampleResult())
	assert.Error(t, err)
}
