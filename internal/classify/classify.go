package classify

import (
	"regexp"
	"strings"
)

// Classifier labels applications as AI products or AI-extension hosts based
// on keyword sets injected at construction time.
type Classifier struct {
	sets KeywordSets
}

// New creates a Classifier from the given keyword sets. Keywords are
// normalized to lower case so matching stays case-insensitive.
func New(sets KeywordSets) *Classifier {
	normalized := KeywordSets{
		AIApps:  lowerAll(sets.AIApps),
		AIHosts: lowerAll(sets.AIHosts),
	}
	for _, group := range sets.Categories {
		normalized.Categories = append(normalized.Categories, CategoryKeywords{
			Category: group.Category,
			Keywords: lowerAll(group.Keywords),
		})
	}
	return &Classifier{sets: normalized}
}

// Classify reports whether the application is an AI product or an AI-extension
// host. The AI check runs first and short-circuits, so a name matching both
// lists always classifies as an AI app. At most one result is true.
func (c *Classifier) Classify(name, identifier string) (isAI, isHost bool) {
	nameLower := strings.ToLower(name)
	idLower := strings.ToLower(identifier)

	for _, kw := range c.sets.AIApps {
		if strings.Contains(nameLower, kw) || (idLower != "" && strings.Contains(idLower, kw)) {
			return true, false
		}
	}

	for _, kw := range c.sets.AIHosts {
		if strings.Contains(nameLower, kw) {
			return false, true
		}
	}

	return false, false
}

// Category assigns a category for a classified application. AI apps are
// matched against the ordered category groups, first group wins. Host apps
// are always dev_tools.
func (c *Classifier) Category(name string, isAI, isHost bool) Category {
	if isAI {
		nameLower := strings.ToLower(name)
		for _, group := range c.sets.Categories {
			for _, kw := range group.Keywords {
				if strings.Contains(nameLower, kw) {
					return group.Category
				}
			}
		}
		return CategoryOther
	}
	if isHost {
		return CategoryDevTools
	}
	return CategoryOther
}

var nonSlugRunRe = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateAppID derives a stable slug from a display name: lower-cased, runs
// of non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped. Returns "" for names with no alphanumerics.
func GenerateAppID(name string) string {
	slug := nonSlugRunRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
