package collectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oisp/appscan/internal/classify"
)

func writeBundle(t *testing.T, root, bundleName, plistBody string) string {
	t.Helper()
	bundle := filepath.Join(root, bundleName)
	contents := filepath.Join(bundle, "Contents")
	if err := os.MkdirAll(contents, 0o755); err != nil {
		t.Fatal(err)
	}
	if plistBody != "" {
		plistXML := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
			"<!DOCTYPE plist PUBLIC \"-//Apple//DTD PLIST 1.0//EN\" \"http://www.apple.com/DTDs/PropertyList-1.0.dtd\">\n" +
			"<plist version=\"1.0\">\n<dict>\n" + plistBody + "</dict>\n</plist>\n"
		if err := os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(plistXML), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return bundle
}

func newTestMacCollector(opts Options) *MacCollector {
	c := NewMacCollector(opts)
	// Point the external tools at nothing so tests never shell out.
	c.codesignPath = filepath.Join(os.TempDir(), "appscan-no-such-codesign")
	c.sipsPath = filepath.Join(os.TempDir(), "appscan-no-such-sips")
	return c
}

func TestMacCollectorDiscoversBundle(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "Cursor.app",
		"\t<key>CFBundleIdentifier</key><string>com.cursor.Cursor</string>\n"+
			"\t<key>CFBundleName</key><string>Cursor</string>\n"+
			"\t<key>CFBundleShortVersionString</key><string>0.42.3</string>\n"+
			"\t<key>CFBundleExecutable</key><string>Cursor</string>\n"+
			"\t<key>NSHumanReadableCopyright</key><string>Copyright © 2024 Anysphere Inc. All rights reserved.</string>\n")

	c := newTestMacCollector(Options{SearchPaths: []string{root}})
	apps, err := c.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 app, got %d", len(apps))
	}

	app := apps[0]
	if app.AppID != "cursor" {
		t.Errorf("AppID = %q, want cursor", app.AppID)
	}
	if !app.IsAIApp || app.IsAIHost {
		t.Errorf("classification = (%v, %v), want AI app", app.IsAIApp, app.IsAIHost)
	}
	if app.Category != classify.CategoryDevTools {
		t.Errorf("Category = %q, want dev_tools", app.Category)
	}
	if app.Vendor != "Anysphere Inc" {
		t.Errorf("Vendor = %q, want Anysphere Inc", app.Vendor)
	}
	if app.MacOS == nil || app.MacOS.BundleID != "com.cursor.Cursor" {
		t.Fatalf("unexpected macOS signature: %+v", app.MacOS)
	}
	if app.MacOS.Version != "0.42.3" || app.MacOS.ExecutableName != "Cursor" {
		t.Errorf("signature fields = %+v", app.MacOS)
	}
	// codesign tool is absent, team id must degrade silently
	if app.MacOS.TeamID != "" {
		t.Errorf("TeamID = %q, want absent", app.MacOS.TeamID)
	}
}

func TestMacCollectorSkipsBundleWithoutIdentifier(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "NoID.app",
		"\t<key>CFBundleName</key><string>NoID</string>\n")
	writeBundle(t, root, "NoPlist.app", "")

	c := newTestMacCollector(Options{SearchPaths: []string{root}})
	apps, err := c.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("expected no apps, got %d", len(apps))
	}
}

func TestMacCollectorDedupsByBundleID(t *testing.T) {
	root := t.TempDir()
	first := writeBundle(t, root, "ChatGPT.app",
		"\t<key>CFBundleIdentifier</key><string>com.openai.chat</string>\n"+
			"\t<key>CFBundleName</key><string>ChatGPT</string>\n")
	writeBundle(t, filepath.Join(root, "Leftovers"), "ChatGPT copy.app",
		"\t<key>CFBundleIdentifier</key><string>com.openai.chat</string>\n"+
			"\t<key>CFBundleName</key><string>ChatGPT</string>\n")

	c := newTestMacCollector(Options{SearchPaths: []string{root}})
	apps, err := c.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 record for shared bundle id, got %d", len(apps))
	}
	if apps[0].Path != first {
		t.Errorf("canonical path = %q, want first-encountered %q", apps[0].Path, first)
	}
	if len(apps[0].MacOS.Paths) != 2 {
		t.Errorf("expected both paths recorded, got %v", apps[0].MacOS.Paths)
	}
}

func TestMacCollectorScansOneSubdirLevel(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, filepath.Join(root, "Utilities"), "Claude.app",
		"\t<key>CFBundleIdentifier</key><string>com.anthropic.claude</string>\n"+
			"\t<key>CFBundleName</key><string>Claude</string>\n")

	c := newTestMacCollector(Options{SearchPaths: []string{root}})
	apps, err := c.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 app from nested folder, got %d", len(apps))
	}
	if apps[0].Category != classify.CategoryChat {
		t.Errorf("Category = %q, want chat", apps[0].Category)
	}
}

func TestMacCollectorMissingIconToolDegrades(t *testing.T) {
	root := t.TempDir()
	bundle := writeBundle(t, root, "Cursor.app",
		"\t<key>CFBundleIdentifier</key><string>com.cursor.Cursor</string>\n"+
			"\t<key>CFBundleName</key><string>Cursor</string>\n"+
			"\t<key>CFBundleIconFile</key><string>icon</string>\n")
	resources := filepath.Join(bundle, "Contents", "Resources")
	if err := os.MkdirAll(resources, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(resources, "icon.icns"), []byte("not a real icon"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestMacCollector(Options{SearchPaths: []string{root}, ExtractIcons: true})
	apps, err := c.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("discovery must survive a missing conversion tool, got %d apps", len(apps))
	}
	if apps[0].IconPath != "" || apps[0].IconBase64 != "" {
		t.Errorf("icon fields should be absent when conversion fails: path=%q inline=%d bytes",
			apps[0].IconPath, len(apps[0].IconBase64))
	}
}

func TestResolveIconFile(t *testing.T) {
	root := t.TempDir()
	bundle := writeBundle(t, root, "App.app",
		"\t<key>CFBundleIdentifier</key><string>com.example.app</string>\n")
	resources := filepath.Join(bundle, "Contents", "Resources")
	if err := os.MkdirAll(resources, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(resources, "Other.icns"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Named icon absent: falls back to any .icns under Resources.
	got := resolveIconFile(bundle, map[string]interface{}{"CFBundleIconFile": "Missing"})
	if filepath.Base(got) != "Other.icns" {
		t.Errorf("fallback resolution = %q, want Other.icns", got)
	}

	// No icon name declared at all: nothing to resolve.
	if got := resolveIconFile(bundle, map[string]interface{}{}); got != "" {
		t.Errorf("expected empty result without a declared icon, got %q", got)
	}
}
