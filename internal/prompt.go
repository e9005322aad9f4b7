package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// promptVideoLimit caps how many videos are listed in the insights prompt
const promptVideoLimit = 50

// PromptData for template injection
type PromptData struct {
	Query      string
	VideoCount int
	TotalViews string
	Videos     string
}

// PromptManager handles loading and processing prompt templates
type PromptManager struct {
	promptFile   string
	promptString string
	configDir    string
}

// NewPromptManager creates a new prompt manager
func NewPromptManager(configDir, promptSetting string) *PromptManager {
	pm := &PromptManager{
		configDir: configDir,
	}

	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			pm.promptFile = promptSetting
		} else {
			pm.promptString = promptSetting
		}
	}

	return pm
}

// CreatePrompt builds the insights prompt for a result set
func (pm *PromptManager) CreatePrompt(result *ResultFile) (string, error) {
	var tmplContent string

	switch {
	case pm.promptString != "":
		tmplContent = pm.promptString
	case pm.promptFile != "":
		content, err := os.ReadFile(pm.promptFile)
		if err != nil {
			return "", fmt.Errorf("reading prompt template: %w", err)
		}
		tmplContent = string(content)
	default:
		// user copy in the config directory wins over the embedded default
		content, err := os.ReadFile(filepath.Join(pm.configDir, "prompt.txt"))
		if err != nil {
			content, err = defaultFS.ReadFile("prompt.txt")
			if err != nil {
				return "", fmt.Errorf("reading prompt template: %w", err)
			}
		}
		tmplContent = string(content)
	}

	return pm.buildPromptFromTemplate(tmplContent, result)
}

func (pm *PromptManager) buildPromptFromTemplate(templateContent string, result *ResultFile) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	stats := ComputeStats(result.Videos)

	var videos strings.Builder
	for _, v := range TopVideos(result.Videos, promptVideoLimit) {
		fmt.Fprintf(&videos, "- %s | %s | %s | %s\n",
			commaValue(v.ViewCount), v.VideoType, v.Channel, markdownCell(v.Title))
	}

	data := PromptData{
		Query:      result.Query.Label(),
		VideoCount: len(result.Videos),
		TotalViews: commaValue(stats.TotalViews),
		Videos:     strings.TrimRight(videos.String(), "\n"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}

	return buf.String(), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// long strings are prompts, not paths
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
