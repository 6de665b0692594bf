// Package export serializes the finalized inventory to its external
// representations: the structured JSON document and per-app YAML profiles.
package export

import (
	"encoding/json"
	"time"

	"github.com/oisp/appscan/internal/inventory"
)

// Document is the structured inventory envelope.
type Document struct {
	Platform     string           `json:"platform"`
	Hostname     string           `json:"hostname"`
	DiscoveredAt string           `json:"discovered_at"`
	TotalApps    int              `json:"total_apps"`
	AIApps       int              `json:"ai_apps"`
	AIHostApps   int              `json:"ai_host_apps"`
	Apps         []*inventory.App `json:"apps"`
}

// NewDocument builds the envelope around a finalized app list.
func NewDocument(apps []*inventory.App, meta HostMeta) *Document {
	doc := &Document{
		Platform:     meta.Platform,
		Hostname:     meta.Hostname,
		DiscoveredAt: time.Now().Format(time.RFC3339),
		TotalApps:    len(apps),
		Apps:         apps,
	}
	for _, app := range apps {
		if app.IsAIApp {
			doc.AIApps++
		}
		if app.IsAIHost {
			doc.AIHostApps++
		}
	}
	return doc
}

// MarshalIndent renders the document as indented JSON.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// WithoutInlineIcons returns a copy of the document with inline icon data
// stripped from every record, the compact form written alongside per-app
// profile files.
func (d *Document) WithoutInlineIcons() *Document {
	c := *d
	c.Apps = stripInlineIcons(d.Apps)
	return &c
}

// AppsJSON renders the bare per-app array, the submission payload shape.
// Inline icon data is included unless includeIcons is false.
func AppsJSON(apps []*inventory.App, includeIcons bool) ([]byte, error) {
	if !includeIcons {
		apps = stripInlineIcons(apps)
	}
	return json.Marshal(apps)
}

func stripInlineIcons(apps []*inventory.App) []*inventory.App {
	out := make([]*inventory.App, len(apps))
	for i, app := range apps {
		out[i] = app.WithoutInlineIcon()
	}
	return out
}
