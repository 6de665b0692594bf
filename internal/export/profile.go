package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oisp/appscan/internal/inventory"
)

// Profile renders one app as an ordered, human-readable YAML block: identity
// first, then category, per-platform signature blocks in macOS, Windows,
// Linux order, and the metadata block last. Absent optional fields produce
// no line at all.
func Profile(app *inventory.App) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", app.Name)
	fmt.Fprintf(&b, "# Discovered from: %s\n\n", app.Path)

	fmt.Fprintf(&b, "app_id: %s\n", app.AppID)
	fmt.Fprintf(&b, "name: %q\n", app.Name)
	if app.Vendor != "" {
		fmt.Fprintf(&b, "vendor: %q\n", app.Vendor)
	}
	fmt.Fprintf(&b, "category: %s\n", app.Category)

	b.WriteString("\nsignatures:\n")
	writeSignature(&b, "macos", app.MacOS, true)
	writeSignature(&b, "windows", app.Windows, false)
	writeSignature(&b, "linux", app.Linux, false)

	b.WriteString("\nmetadata:\n")
	fmt.Fprintf(&b, "  discovered_at: %q\n", app.DiscoveredAt)
	if app.MacOS != nil && app.MacOS.Version != "" {
		fmt.Fprintf(&b, "  version_discovered: %q\n", app.MacOS.Version)
	}
	if app.IsAIApp {
		b.WriteString("  is_ai_app: true\n")
	}
	if app.IsAIHost {
		b.WriteString("  is_ai_host: true\n")
	}
	if app.IconPath != "" {
		fmt.Fprintf(&b, "  icon: %q\n", filepath.Base(app.IconPath))
	}

	b.WriteString("\n")
	return b.String()
}

// writeSignature emits one platform block. Identity fields (bundle and team
// identifiers) only exist on the macOS block.
func writeSignature(b *strings.Builder, label string, sig *inventory.Signature, withIdentity bool) {
	if sig == nil {
		return
	}
	fmt.Fprintf(b, "  %s:\n", label)
	if withIdentity {
		if sig.BundleID != "" {
			fmt.Fprintf(b, "    bundle_id: %q\n", sig.BundleID)
		}
		if sig.TeamID != "" {
			fmt.Fprintf(b, "    team_id: %q\n", sig.TeamID)
		}
	}
	if len(sig.Paths) > 0 {
		b.WriteString("    paths:\n")
		for _, p := range sig.Paths {
			fmt.Fprintf(b, "      - %q\n", p)
		}
	}
	if sig.ExecutableName != "" {
		fmt.Fprintf(b, "    executable_name: %q\n", sig.ExecutableName)
	}
}

// WriteProfiles writes one <appId>.yaml file per app into dir.
func WriteProfiles(dir string, apps []*inventory.App) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	for _, app := range apps {
		path := filepath.Join(dir, app.AppID+".yaml")
		if err := os.WriteFile(path, []byte(Profile(app)), 0o644); err != nil {
			return fmt.Errorf("write profile %s: %w", path, err)
		}
	}
	return nil
}
