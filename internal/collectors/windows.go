package collectors

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oisp/appscan/internal/classify"
	"github.com/oisp/appscan/internal/inventory"
	"github.com/oisp/appscan/internal/logging"
)

// installerNameParts marks executables that are installers or updaters
// rather than applications.
var installerNameParts = []string{"uninstall", "update", "setup", "installer"}

// WindowsCollector discovers applications by scanning the install roots for
// executables. There is no reliable native metadata to read without invoking
// the executable, so this collector filters at discovery time: only
// executables matching an AI or host keyword are retained.
type WindowsCollector struct {
	classifier  *classify.Classifier
	searchPaths []string
	log         *slog.Logger
}

// NewWindowsCollector creates the Windows collector.
func NewWindowsCollector(opts Options) *WindowsCollector {
	paths := opts.SearchPaths
	if len(paths) == 0 {
		paths = defaultWindowsSearchPaths()
	}
	return &WindowsCollector{
		classifier:  opts.classifier(),
		searchPaths: paths,
		log:         logging.L("collector.windows"),
	}
}

func defaultWindowsSearchPaths() []string {
	programFiles := os.Getenv("ProgramFiles")
	if programFiles == "" {
		programFiles = `C:\Program Files`
	}
	programFilesX86 := os.Getenv("ProgramFiles(x86)")
	if programFilesX86 == "" {
		programFilesX86 = `C:\Program Files (x86)`
	}

	paths := []string{programFiles, programFilesX86}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		paths = append(paths, filepath.Join(localAppData, "Programs"))
	}
	return paths
}

// DiscoverAll recursively scans the search roots for .exe files.
func (c *WindowsCollector) DiscoverAll(ctx context.Context) ([]*inventory.App, error) {
	var apps []*inventory.App

	for _, root := range c.searchPaths {
		if _, err := os.Stat(root); err != nil {
			c.log.Debug("skipping missing search root", "path", root)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, keep walking
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".exe") {
				return nil
			}
			if isInstallerName(d.Name()) {
				return nil
			}
			if app := c.discoverExecutable(path); app != nil {
				apps = append(apps, app)
			}
			return nil
		})
		if err != nil {
			return apps, err
		}
	}

	return apps, nil
}

func isInstallerName(name string) bool {
	lower := strings.ToLower(name)
	for _, part := range installerNameParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func (c *WindowsCollector) discoverExecutable(exePath string) *inventory.App {
	base := filepath.Base(exePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	isAI, isHost := c.classifier.Classify(name, "")
	if !isAI && !isHost {
		return nil
	}

	appID := classify.GenerateAppID(name)
	if appID == "" {
		return nil
	}

	app := inventory.New(appID, name)
	app.Category = c.classifier.Category(name, isAI, isHost)
	app.Path = exePath
	app.IsAIApp = isAI
	app.IsAIHost = isHost
	app.Windows = &inventory.Signature{
		Paths:          []string{exePath},
		ExecutableName: base,
	}

	enrichFromUninstallRegistry(app)

	return app
}
