package inventory

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"time"

	"github.com/oisp/appscan/internal/classify"
)

// Signature holds the platform-specific identifying fields for one installed
// application instance. All fields are optional; absent fields are omitted
// from serialized output.
type Signature struct {
	BundleID       string   `json:"bundle_id,omitempty"`
	TeamID         string   `json:"team_id,omitempty"`
	Paths          []string `json:"paths,omitempty"`
	ExecutableName string   `json:"executable_name,omitempty"`
	Version        string   `json:"version,omitempty"`
}

// Empty reports whether every field of the signature is unset.
func (s *Signature) Empty() bool {
	return s == nil ||
		(s.BundleID == "" && s.TeamID == "" && len(s.Paths) == 0 &&
			s.ExecutableName == "" && s.Version == "")
}

// AddPath appends p to the signature's path set if not already present.
func (s *Signature) AddPath(p string) {
	if p == "" {
		return
	}
	for _, existing := range s.Paths {
		if existing == p {
			return
		}
	}
	s.Paths = append(s.Paths, p)
}

// App is the canonical unit of inventory: one discovered application with
// its platform signature and classification.
type App struct {
	AppID    string            `json:"app_id"`
	Name     string            `json:"name"`
	Vendor   string            `json:"vendor,omitempty"`
	Category classify.Category `json:"category"`
	Path     string            `json:"path"`

	// Exactly one platform signature is populated per discovery run.
	MacOS   *Signature `json:"macos,omitempty"`
	Windows *Signature `json:"windows,omitempty"`
	Linux   *Signature `json:"linux,omitempty"`

	// IconPath and IconBase64 are mutually exclusive: a path when icons are
	// written to disk, inline data when no icon directory is designated.
	IconPath   string `json:"icon_path,omitempty"`
	IconBase64 string `json:"icon_base64,omitempty"`

	IsAIApp      bool   `json:"is_ai_app"`
	IsAIHost     bool   `json:"is_ai_host"`
	DiscoveredAt string `json:"discovered_at"`
	MachineID    string `json:"machine_id"`
}

// New creates an App stamped with the discovery timestamp and machine
// identifier. Callers fill in the remaining fields.
func New(appID, name string) *App {
	return &App{
		AppID:        appID,
		Name:         name,
		Category:     classify.CategoryOther,
		DiscoveredAt: time.Now().Format(time.RFC3339),
		MachineID:    MachineID(),
	}
}

// Normalize drops signatures with every field empty so they serialize as
// absent rather than as empty objects.
func (a *App) Normalize() {
	if a.MacOS.Empty() {
		a.MacOS = nil
	}
	if a.Windows.Empty() {
		a.Windows = nil
	}
	if a.Linux.Empty() {
		a.Linux = nil
	}
}

// Signature returns whichever platform signature is populated, or nil.
func (a *App) Signature() *Signature {
	switch {
	case a.MacOS != nil:
		return a.MacOS
	case a.Windows != nil:
		return a.Windows
	case a.Linux != nil:
		return a.Linux
	}
	return nil
}

// WithoutInlineIcon returns a shallow copy of the app with inline icon data
// stripped, for the compact document form.
func (a *App) WithoutInlineIcon() *App {
	c := *a
	c.IconBase64 = ""
	return &c
}

var (
	machineIDOnce sync.Once
	machineID     string
)

// MachineID returns the first 12 hex characters of the SHA-256 hash of the
// local hostname. Stable per machine; hostname-derived, so not an anonymized
// identifier.
func MachineID() string {
	machineIDOnce.Do(func() {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "unknown"
		}
		sum := sha256.Sum256([]byte(hostname))
		machineID = hex.EncodeToString(sum[:])[:12]
	})
	return machineID
}
