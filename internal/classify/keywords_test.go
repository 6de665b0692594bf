package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultKeywordSetsNotEmpty(t *testing.T) {
	sets := DefaultKeywordSets()
	if len(sets.AIApps) == 0 {
		t.Error("AI app keyword set should not be empty")
	}
	if len(sets.AIHosts) == 0 {
		t.Error("AI host keyword set should not be empty")
	}
	if len(sets.Categories) == 0 {
		t.Error("category keyword groups should not be empty")
	}
}

func TestDefaultCategoriesAreKnown(t *testing.T) {
	known := map[Category]bool{
		CategoryDevTools:     true,
		CategoryChat:         true,
		CategoryProductivity: true,
		CategoryCreative:     true,
	}
	for _, group := range DefaultKeywordSets().Categories {
		if !known[group.Category] {
			t.Errorf("unknown category %q in defaults", group.Category)
		}
		if len(group.Keywords) == 0 {
			t.Errorf("category %q has no keywords", group.Category)
		}
	}
}

func TestLoadKeywordSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := `ai_apps:
  - internal-llm
ai_hosts:
  - acme editor
categories:
  - category: chat
    keywords:
      - internal-llm
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sets, err := LoadKeywordSets(path)
	if err != nil {
		t.Fatalf("LoadKeywordSets: %v", err)
	}
	if len(sets.AIApps) != 1 || sets.AIApps[0] != "internal-llm" {
		t.Errorf("unexpected AI apps: %v", sets.AIApps)
	}
	if len(sets.AIHosts) != 1 || sets.AIHosts[0] != "acme editor" {
		t.Errorf("unexpected AI hosts: %v", sets.AIHosts)
	}
}

func TestLoadKeywordSetsMissingFile(t *testing.T) {
	if _, err := LoadKeywordSets(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultKeywordSets()
	merged := base.Merge(KeywordSets{
		AIApps:  []string{"Internal-LLM", "cursor"}, // "cursor" duplicates a default
		AIHosts: []string{"acme editor"},
		Categories: []CategoryKeywords{
			{Category: CategoryChat, Keywords: []string{"internal-llm"}},
			{Category: Category("custom"), Keywords: []string{"widget"}},
		},
	})

	count := 0
	for _, kw := range merged.AIApps {
		if kw == "cursor" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate keyword not collapsed, found %d occurrences of cursor", count)
	}

	c := New(merged)
	if isAI, _ := c.Classify("Internal-LLM Desktop", ""); !isAI {
		t.Error("merged AI keyword did not match")
	}
	if got := c.Category("Internal-LLM Desktop", true, false); got != CategoryChat {
		t.Errorf("merged category keyword gave %q, want %q", got, CategoryChat)
	}
	if _, isHost := c.Classify("Acme Editor", ""); !isHost {
		t.Error("merged host keyword did not match")
	}
}
