package collectors

import (
	"context"
	"fmt"
	"time"

	"github.com/oisp/appscan/internal/classify"
	"github.com/oisp/appscan/internal/inventory"
)

// commandTimeout bounds every external tool invocation (codesign, sips).
const commandTimeout = 10 * time.Second

// Collector discovers installed applications from one platform's native
// metadata. Implementations never fail on missing search roots or malformed
// individual artifacts; a best-effort partial inventory is always preferred.
type Collector interface {
	DiscoverAll(ctx context.Context) ([]*inventory.App, error)
}

// Options configures a collector.
type Options struct {
	// Classifier labels discovered applications. Defaults to the built-in
	// keyword sets when nil.
	Classifier *classify.Classifier

	// SearchPaths overrides the platform's default search roots when set.
	SearchPaths []string

	// ExtractIcons enables icon extraction (macOS only).
	ExtractIcons bool

	// IconsDir receives extracted icons as <appId>.png files. When empty,
	// icon data is embedded inline in the record instead.
	IconsDir string
}

func (o Options) classifier() *classify.Classifier {
	if o.Classifier != nil {
		return o.Classifier
	}
	return classify.New(classify.DefaultKeywordSets())
}

// ForPlatform selects the collector variant for the given GOOS value.
// The selection happens once here; no platform conditionals live inside
// shared logic.
func ForPlatform(goos string, opts Options) (Collector, error) {
	switch goos {
	case "darwin":
		return NewMacCollector(opts), nil
	case "windows":
		return NewWindowsCollector(opts), nil
	case "linux":
		return NewLinuxCollector(opts), nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", goos)
}
