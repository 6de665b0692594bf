package collectors

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oisp/appscan/internal/classify"
	"github.com/oisp/appscan/internal/inventory"
	"github.com/oisp/appscan/internal/logging"
)

// LinuxCollector discovers applications from desktop-entry files under the
// standard application directories.
type LinuxCollector struct {
	classifier  *classify.Classifier
	searchPaths []string
	log         *slog.Logger
}

// NewLinuxCollector creates the Linux collector.
func NewLinuxCollector(opts Options) *LinuxCollector {
	paths := opts.SearchPaths
	if len(paths) == 0 {
		paths = defaultLinuxSearchPaths()
	}
	return &LinuxCollector{
		classifier:  opts.classifier(),
		searchPaths: paths,
		log:         logging.L("collector.linux"),
	}
}

func defaultLinuxSearchPaths() []string {
	paths := []string{"/usr/share/applications", "/usr/local/share/applications"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local/share/applications"))
	}
	return paths
}

// DiscoverAll parses every .desktop file under the search roots.
func (c *LinuxCollector) DiscoverAll(ctx context.Context) ([]*inventory.App, error) {
	var apps []*inventory.App

	for _, root := range c.searchPaths {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return apps, ctx.Err()
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".desktop") {
				continue
			}
			if app := c.parseDesktopFile(filepath.Join(root, entry.Name())); app != nil {
				apps = append(apps, app)
			}
		}
	}

	return apps, nil
}

// parseDesktopFile builds a record from one desktop-entry file. Entries
// without a Name key are skipped.
func (c *LinuxCollector) parseDesktopFile(path string) *inventory.App {
	content, err := os.ReadFile(path)
	if err != nil {
		c.log.Debug("skipping unreadable desktop entry", "path", path)
		return nil
	}

	name, execPath := parseDesktopEntry(string(content))
	if name == "" {
		return nil
	}

	appID := classify.GenerateAppID(name)
	if appID == "" {
		return nil
	}

	isAI, isHost := c.classifier.Classify(name, "")

	app := inventory.New(appID, name)
	app.Category = c.classifier.Category(name, isAI, isHost)
	app.Path = execPath
	app.IsAIApp = isAI
	app.IsAIHost = isHost

	sig := &inventory.Signature{}
	if execPath != "" {
		sig.Paths = []string{execPath}
		sig.ExecutableName = filepath.Base(execPath)
	}
	app.Linux = sig

	return app
}

// parseDesktopEntry reads the first Name= and Exec= lines, treating the
// whole file as one flat key space. Exec's first whitespace-separated token
// is the executable path; field codes and arguments are dropped.
func parseDesktopEntry(content string) (name, execPath string) {
	for _, line := range strings.Split(content, "\n") {
		if v, ok := strings.CutPrefix(line, "Name="); ok && name == "" {
			name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Exec="); ok && execPath == "" {
			fields := strings.Fields(v)
			if len(fields) > 0 {
				execPath = fields[0]
			}
		}
	}
	return name, execPath
}
