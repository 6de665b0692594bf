package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category represents an application category.
type Category string

// Category constants.
const (
	CategoryDevTools     Category = "dev_tools"
	CategoryChat         Category = "chat"
	CategoryProductivity Category = "productivity"
	CategoryCreative     Category = "creative"
	CategoryOther        Category = "other"
)

// CategoryKeywords binds a category to the keywords that select it.
// Groups are evaluated in order and the first matching group wins.
type CategoryKeywords struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// KeywordSets holds the reference keyword data used for classification.
// AIApps marks applications that are themselves AI products; AIHosts marks
// applications that commonly host AI-powered extensions (editors, IDEs).
type KeywordSets struct {
	AIApps     []string           `yaml:"ai_apps"`
	AIHosts    []string           `yaml:"ai_hosts"`
	Categories []CategoryKeywords `yaml:"categories"`
}

// DefaultKeywordSets returns the built-in keyword database.
func DefaultKeywordSets() KeywordSets {
	return KeywordSets{
		AIApps: []string{
			"cursor", "copilot", "cody", "claude", "chatgpt", "openai", "anthropic",
			"gpt", "gemini", "bard", "perplexity", "phind", "tabnine", "kite",
			"windsurf", "continue", "aider", "codeium", "sourcegraph", "pieces",
			"notion", "obsidian", "grammarly", "jasper", "copy.ai", "writesonic",
			"midjourney", "dall-e", "stable-diffusion", "runway", "luma",
			"whisper", "otter", "descript", "krisp",
			"raycast", "alfred", // AI features
			"warp", // AI terminal
			"fig",
			"zed", // AI code editor
		},
		AIHosts: []string{
			"visual studio code", "vscode", "intellij", "pycharm", "webstorm",
			"goland", "rider", "clion", "datagrip", "rubymine", "phpstorm",
			"android studio", "xcode", "sublime text", "atom", "vim", "neovim",
			"emacs", "nova", "bbedit", "textmate",
		},
		Categories: []CategoryKeywords{
			{Category: CategoryDevTools, Keywords: []string{"code", "ide", "cursor", "copilot", "cody", "studio", "zed"}},
			{Category: CategoryChat, Keywords: []string{"chat", "claude", "gpt", "gemini", "perplexity"}},
			{Category: CategoryProductivity, Keywords: []string{"notion", "obsidian", "grammarly"}},
			{Category: CategoryCreative, Keywords: []string{"midjourney", "dall", "stable", "runway"}},
		},
	}
}

// LoadKeywordSets reads extra keyword sets from a YAML file.
func LoadKeywordSets(path string) (KeywordSets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordSets{}, fmt.Errorf("read keywords file: %w", err)
	}

	var sets KeywordSets
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return KeywordSets{}, fmt.Errorf("parse keywords file %s: %w", path, err)
	}

	return sets, nil
}

// Merge returns a copy of s extended with the keywords from extra.
// Duplicate keywords are dropped; extra category groups with a category
// already present are folded into the existing group to preserve ordering.
func (s KeywordSets) Merge(extra KeywordSets) KeywordSets {
	merged := KeywordSets{
		AIApps:  mergeKeywords(s.AIApps, extra.AIApps),
		AIHosts: mergeKeywords(s.AIHosts, extra.AIHosts),
	}

	merged.Categories = make([]CategoryKeywords, len(s.Categories))
	copy(merged.Categories, s.Categories)

	for _, group := range extra.Categories {
		idx := -1
		for i, existing := range merged.Categories {
			if existing.Category == group.Category {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged.Categories[idx].Keywords = mergeKeywords(merged.Categories[idx].Keywords, group.Keywords)
		} else {
			merged.Categories = append(merged.Categories, group)
		}
	}

	return merged
}

func mergeKeywords(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))

	for _, kw := range append(append([]string{}, base...), extra...) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		merged = append(merged, kw)
	}

	return merged
}
