//go:build !windows

package collectors

import "github.com/oisp/appscan/internal/inventory"

// Uninstall registry enrichment only exists on Windows builds.
func enrichFromUninstallRegistry(_ *inventory.App) {}
