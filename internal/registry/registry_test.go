package registry

import (
	"testing"

	"github.com/oisp/appscan/internal/inventory"
)

func app(name string, isAI, isHost bool) *inventory.App {
	a := inventory.New(name, name)
	a.IsAIApp = isAI
	a.IsAIHost = isHost
	return a
}

func TestFinalizeOrdering(t *testing.T) {
	r := New()
	r.Add(
		app("Z", false, false),
		app("A", true, false),
		app("M", false, true),
	)

	apps := r.Finalize()
	if len(apps) != 3 {
		t.Fatalf("expected 3 apps, got %d", len(apps))
	}
	got := []string{apps[0].Name, apps[1].Name, apps[2].Name}
	want := []string{"A", "M", "Z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestFinalizeNameTieBreakIsCaseInsensitive(t *testing.T) {
	r := New()
	r.Add(app("beta", true, false), app("Alpha", true, false))

	apps := r.Finalize()
	if apps[0].Name != "Alpha" || apps[1].Name != "beta" {
		t.Errorf("order = [%s, %s], want [Alpha, beta]", apps[0].Name, apps[1].Name)
	}
}

func TestAddDedupsByBundleID(t *testing.T) {
	first := app("ChatGPT", true, false)
	first.Path = "/Applications/ChatGPT.app"
	first.MacOS = &inventory.Signature{BundleID: "com.openai.chat", Paths: []string{first.Path}}

	second := app("ChatGPT", true, false)
	second.Path = "/Users/me/Applications/ChatGPT.app"
	second.MacOS = &inventory.Signature{BundleID: "com.openai.chat", Paths: []string{second.Path}}

	r := New()
	r.Add(first, second)

	apps := r.Finalize()
	if len(apps) != 1 {
		t.Fatalf("expected 1 record, got %d", len(apps))
	}
	if apps[0].Path != "/Applications/ChatGPT.app" {
		t.Errorf("install path should come from the first occurrence, got %q", apps[0].Path)
	}
	if len(apps[0].MacOS.Paths) != 2 {
		t.Errorf("duplicate path should be merged, got %v", apps[0].MacOS.Paths)
	}
}

func TestAddDedupsByAppIDAndPath(t *testing.T) {
	// Same desktop entry reachable through two search roots.
	first := app("Cursor", true, false)
	first.Path = "/usr/bin/cursor"
	first.Linux = &inventory.Signature{Paths: []string{first.Path}, ExecutableName: "cursor"}

	second := app("Cursor", true, false)
	second.Path = "/usr/bin/cursor"
	second.Linux = &inventory.Signature{Paths: []string{second.Path}, ExecutableName: "cursor"}

	// Same slug, different binary: stays a separate record.
	third := app("Cursor", true, false)
	third.Path = "/opt/cursor/cursor"
	third.Linux = &inventory.Signature{Paths: []string{third.Path}, ExecutableName: "cursor"}

	r := New()
	r.Add(first, second, third)

	if r.Len() != 2 {
		t.Fatalf("expected 2 unique records, got %d", r.Len())
	}
}

func TestAddNormalizesEmptySignatures(t *testing.T) {
	a := app("Mystery", false, false)
	a.Linux = &inventory.Signature{}

	r := New()
	r.Add(a)

	if got := r.Finalize()[0]; got.Linux != nil {
		t.Error("all-empty signature should normalize to absent")
	}
}
