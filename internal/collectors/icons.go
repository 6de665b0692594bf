package collectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oisp/appscan/internal/inventory"
	"github.com/oisp/appscan/internal/logging"
)

// extractIcon resolves the bundle's icon container, converts it to PNG and
// attaches the result to the app record. Failures leave both icon fields
// absent and never abort discovery.
func (c *MacCollector) extractIcon(ctx context.Context, app *inventory.App, bundlePath string, info map[string]interface{}) {
	icnsPath := resolveIconFile(bundlePath, info)
	if icnsPath == "" {
		return
	}

	png, err := c.convertIcon(ctx, icnsPath)
	if err != nil {
		c.log.Warn("icon conversion failed", "app", app.Name, slog.String(logging.KeyError, err.Error()))
		return
	}

	if c.opts.IconsDir != "" {
		out := filepath.Join(c.opts.IconsDir, app.AppID+".png")
		if err := os.WriteFile(out, png, 0o644); err != nil {
			c.log.Warn("failed to write icon file", "app", app.Name, slog.String(logging.KeyError, err.Error()))
			return
		}
		app.IconPath = out
		return
	}
	app.IconBase64 = base64.StdEncoding.EncodeToString(png)
}

// resolveIconFile finds the bundle's .icns file: the name declared in the
// plist (with .icns appended when missing), the name verbatim, then any
// .icns file under Resources as a last resort.
func resolveIconFile(bundlePath string, info map[string]interface{}) string {
	name := plistString(info, "CFBundleIconFile")
	if name == "" {
		name = plistString(info, "CFBundleIconName")
	}
	if name == "" {
		return ""
	}

	resources := filepath.Join(bundlePath, "Contents", "Resources")

	withExt := name
	if !strings.HasSuffix(withExt, ".icns") {
		withExt += ".icns"
	}
	if p := filepath.Join(resources, withExt); fileExists(p) {
		return p
	}
	if p := filepath.Join(resources, name); fileExists(p) {
		return p
	}

	matches, _ := filepath.Glob(filepath.Join(resources, "*.icns"))
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// convertIcon runs the external sips tool to produce a 128x128 PNG. The
// scoped temporary output file is removed on every exit path.
func (c *MacCollector) convertIcon(ctx context.Context, icnsPath string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "appscan-icon-*.png")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.sipsPath,
		"-s", "format", "png", "-z", "128", "128", icnsPath, "--out", tmpPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("sips: %w: %s", err, strings.TrimSpace(string(out)))
	}

	png, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read converted icon: %w", err)
	}
	return png, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
