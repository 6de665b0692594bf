//go:build windows

package collectors

import (
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/oisp/appscan/internal/classify"
	"github.com/oisp/appscan/internal/inventory"
)

// Registry paths holding uninstall entries for installed software.
var uninstallRegistryPaths = []struct {
	root registry.Key
	path string
}{
	// 64-bit applications
	{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	// 32-bit applications on 64-bit Windows
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	// Per-user applications
	{registry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
}

// enrichFromUninstallRegistry fills vendor, version, and install location
// from the uninstall registry entry whose display name slugs to the same app
// id. Missing keys or values leave the fields absent.
func enrichFromUninstallRegistry(app *inventory.App) {
	for _, regPath := range uninstallRegistryPaths {
		key, err := registry.OpenKey(regPath.root, regPath.path, registry.READ)
		if err != nil {
			continue
		}
		subkeys, err := key.ReadSubKeyNames(-1)
		if err != nil {
			key.Close()
			continue
		}

		for _, subkeyName := range subkeys {
			subkey, err := registry.OpenKey(key, subkeyName, registry.READ)
			if err != nil {
				continue
			}
			displayName, _ := readStringValue(subkey, "DisplayName")
			if displayName == "" || classify.GenerateAppID(displayName) != app.AppID {
				subkey.Close()
				continue
			}

			if vendor, err := readStringValue(subkey, "Publisher"); err == nil && vendor != "" && app.Vendor == "" {
				app.Vendor = vendor
			}
			if version, err := readStringValue(subkey, "DisplayVersion"); err == nil && version != "" && app.Windows.Version == "" {
				app.Windows.Version = version
			}
			if location, err := readStringValue(subkey, "InstallLocation"); err == nil && location != "" {
				app.Windows.AddPath(location)
			}
			subkey.Close()
			key.Close()
			return
		}
		key.Close()
	}
}

func readStringValue(key registry.Key, name string) (string, error) {
	val, _, err := key.GetStringValue(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(val), nil
}
