package collectors

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/oisp/appscan/internal/classify"
	"github.com/oisp/appscan/internal/inventory"
	"github.com/oisp/appscan/internal/logging"
)

// MacCollector discovers applications from .app bundles under the standard
// application roots by reading each bundle's Info.plist.
type MacCollector struct {
	opts        Options
	classifier  *classify.Classifier
	searchPaths []string
	log         *slog.Logger

	// Tool names are fields so tests can point them at a missing binary.
	codesignPath string
	sipsPath     string
}

// NewMacCollector creates the macOS collector.
func NewMacCollector(opts Options) *MacCollector {
	paths := opts.SearchPaths
	if len(paths) == 0 {
		paths = defaultMacSearchPaths()
	}
	return &MacCollector{
		opts:         opts,
		classifier:   opts.classifier(),
		searchPaths:  paths,
		log:          logging.L("collector.macos"),
		codesignPath: "codesign",
		sipsPath:     "sips",
	}
}

func defaultMacSearchPaths() []string {
	paths := []string{"/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "Applications"))
	}
	return append(paths, "/System/Applications")
}

// DiscoverAll walks the search roots plus one subdirectory level for .app
// bundles. Duplicate bundle identifiers keep the first occurrence; the scan
// order of the roots decides which path becomes canonical.
func (c *MacCollector) DiscoverAll(ctx context.Context) ([]*inventory.App, error) {
	var apps []*inventory.App
	seen := make(map[string]*inventory.App)

	for _, root := range c.searchPaths {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			if strings.HasSuffix(entry.Name(), ".app") {
				c.collectBundle(ctx, path, seen, &apps)
				continue
			}
			if !entry.IsDir() {
				continue
			}
			// One level deep, for folders like Utilities.
			subEntries, err := os.ReadDir(path)
			if err != nil {
				continue
			}
			for _, sub := range subEntries {
				if strings.HasSuffix(sub.Name(), ".app") {
					c.collectBundle(ctx, filepath.Join(path, sub.Name()), seen, &apps)
				}
			}
		}
	}

	return apps, nil
}

func (c *MacCollector) collectBundle(ctx context.Context, bundlePath string, seen map[string]*inventory.App, apps *[]*inventory.App) {
	app, bundleID := c.discoverBundle(ctx, bundlePath)
	if app == nil {
		return
	}
	if existing, ok := seen[bundleID]; ok {
		existing.MacOS.AddPath(bundlePath)
		return
	}
	seen[bundleID] = app
	*apps = append(*apps, app)
}

// discoverBundle extracts one application record from an .app bundle.
// Bundles without a readable Info.plist or without a bundle identifier are
// skipped entirely.
func (c *MacCollector) discoverBundle(ctx context.Context, bundlePath string) (*inventory.App, string) {
	data, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	if err != nil {
		return nil, ""
	}

	var info map[string]interface{}
	if _, err := plist.Unmarshal(data, &info); err != nil {
		c.log.Debug("skipping bundle with unparseable Info.plist", "path", bundlePath)
		return nil, ""
	}

	bundleID := plistString(info, "CFBundleIdentifier")
	if bundleID == "" {
		return nil, ""
	}

	name := plistString(info, "CFBundleName")
	if name == "" {
		name = plistString(info, "CFBundleDisplayName")
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(bundlePath), ".app")
	}

	appID := classify.GenerateAppID(name)
	if appID == "" {
		return nil, ""
	}

	isAI, isHost := c.classifier.Classify(name, bundleID)

	app := inventory.New(appID, name)
	app.Vendor = vendorFromCopyright(plistString(info, "NSHumanReadableCopyright"))
	app.Category = c.classifier.Category(name, isAI, isHost)
	app.Path = bundlePath
	app.IsAIApp = isAI
	app.IsAIHost = isHost
	app.MacOS = &inventory.Signature{
		BundleID:       bundleID,
		TeamID:         c.teamIdentifier(ctx, bundlePath),
		Paths:          []string{bundlePath},
		ExecutableName: plistString(info, "CFBundleExecutable"),
		Version:        plistString(info, "CFBundleShortVersionString"),
	}

	if c.opts.ExtractIcons {
		c.extractIcon(ctx, app, bundlePath, info)
	}

	return app, bundleID
}

// teamIdentifier fetches the code-signing team identifier by running the
// codesign tool and scanning its diagnostic output, which codesign writes to
// stderr. Any failure (missing tool, timeout, unsigned bundle) yields "".
func (c *MacCollector) teamIdentifier(ctx context.Context, bundlePath string) string {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.codesignPath, "-dv", bundlePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil && stderr.Len() == 0 {
		return ""
	}

	for _, line := range strings.Split(stderr.String(), "\n") {
		value, ok := strings.CutPrefix(strings.TrimSpace(line), "TeamIdentifier=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value != "" && value != "not set" {
			return value
		}
	}
	return ""
}

// plistString reads a string value from a parsed plist, tolerating missing
// keys and non-string values.
func plistString(info map[string]interface{}, key string) string {
	if v, ok := info[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
