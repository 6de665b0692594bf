// Package registry merges collector output into a unique, stably ordered
// set of application records.
package registry

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/oisp/appscan/internal/inventory"
)

// Registry deduplicates discovered applications by platform identity and
// produces the final ordered inventory.
type Registry struct {
	order []string
	byKey map[string]*inventory.App
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byKey: make(map[string]*inventory.App)}
}

// Add inserts records, collapsing duplicates. The first occurrence wins and
// keeps its representative install path; paths from later duplicates are
// folded into the first record's signature.
func (r *Registry) Add(apps ...*inventory.App) {
	for _, app := range apps {
		if app == nil {
			continue
		}
		app.Normalize()

		key := dedupKey(app)
		if existing, ok := r.byKey[key]; ok {
			mergePaths(existing, app)
			continue
		}
		r.byKey[key] = app
		r.order = append(r.order, key)
	}
}

// Finalize returns the deduplicated records in export order: AI apps first,
// then AI-host apps, then everything else; case-insensitive name within each
// tier. The name tie-break makes the order a stable total order.
func (r *Registry) Finalize() []*inventory.App {
	apps := make([]*inventory.App, 0, len(r.order))
	for _, key := range r.order {
		apps = append(apps, r.byKey[key])
	}

	sort.SliceStable(apps, func(i, j int) bool {
		ti, tj := tier(apps[i]), tier(apps[j])
		if ti != tj {
			return ti < tj
		}
		return strings.ToLower(apps[i].Name) < strings.ToLower(apps[j].Name)
	})

	return apps
}

// Len reports the number of unique records held.
func (r *Registry) Len() int {
	return len(r.byKey)
}

func tier(app *inventory.App) int {
	switch {
	case app.IsAIApp:
		return 0
	case app.IsAIHost:
		return 1
	}
	return 2
}

// dedupKey derives the platform identity: bundle identifier on macOS, app id
// plus resolved executable path on Windows and Linux.
func dedupKey(app *inventory.App) string {
	if app.MacOS != nil && app.MacOS.BundleID != "" {
		return "bundle:" + app.MacOS.BundleID
	}
	return app.AppID + "|" + filepath.Clean(app.Path)
}

func mergePaths(dst, src *inventory.App) {
	dstSig, srcSig := dst.Signature(), src.Signature()
	if dstSig == nil || srcSig == nil {
		return
	}
	for _, p := range srcSig.Paths {
		dstSig.AddPath(p)
	}
}
