package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oisp/appscan/internal/classify"
	"github.com/oisp/appscan/internal/collectors"
	"github.com/oisp/appscan/internal/config"
	"github.com/oisp/appscan/internal/export"
	"github.com/oisp/appscan/internal/inventory"
	"github.com/oisp/appscan/internal/logging"
	"github.com/oisp/appscan/internal/registry"
	"github.com/oisp/appscan/pkg/api"
)

var (
	version = "0.1.0"

	cfgFile       string
	flagYAML      bool
	flagYAMLDir   string
	flagAIOnly    bool
	flagWithIcons bool
	flagIconsDir  string
	flagSubmit    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "appscan",
	Short: "OISP application discovery agent",
	Long: `Appscan inventories applications installed on this machine, flags AI tools
and AI-hosting applications, and emits the result as a JSON document,
per-app YAML profiles, or an HTTP submission to a registry endpoint.`,
	RunE:          runScan,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("appscan v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/appscan/appscan.yaml)")
	rootCmd.Flags().BoolVar(&flagYAML, "yaml", false, "print per-app YAML profiles to stdout")
	rootCmd.Flags().StringVar(&flagYAMLDir, "yaml-dir", "", "write one YAML profile per app to this directory")
	rootCmd.Flags().BoolVar(&flagAIOnly, "ai-only", false, "only AI and AI-host applications")
	rootCmd.Flags().BoolVar(&flagWithIcons, "with-icons", false, "extract application icons as PNG")
	rootCmd.Flags().StringVar(&flagIconsDir, "icons-dir", "", "directory to save extracted icons")
	rootCmd.Flags().StringVar(&flagSubmit, "submit", "", "submit the inventory to this URL")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "log format (text, json)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	cfg.Validate()

	logging.Init(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	log := logging.L("appscan")

	sets := classify.DefaultKeywordSets()
	if cfg.KeywordsFile != "" {
		extra, err := classify.LoadKeywordSets(cfg.KeywordsFile)
		if err != nil {
			return fmt.Errorf("failed to load keywords: %w", err)
		}
		sets = sets.Merge(extra)
	}

	iconsDir := flagIconsDir
	if iconsDir == "" && flagYAMLDir != "" && flagWithIcons {
		iconsDir = filepath.Join(flagYAMLDir, "icons")
	}
	if flagWithIcons && iconsDir != "" {
		if err := os.MkdirAll(iconsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create icons directory: %w", err)
		}
	}

	collector, err := collectors.ForPlatform(runtime.GOOS, collectors.Options{
		Classifier:   classify.New(sets),
		SearchPaths:  cfg.SearchPaths.For(runtime.GOOS),
		ExtractIcons: flagWithIcons,
		IconsDir:     iconsDir,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	log.Info("discovering applications", "platform", runtime.GOOS)

	discovered, err := collector.DiscoverAll(ctx)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	reg := registry.New()
	reg.Add(discovered...)
	apps := reg.Finalize()

	if flagAIOnly {
		apps = filterAI(apps)
	}

	aiCount, hostCount := 0, 0
	for _, app := range apps {
		if app.IsAIApp {
			aiCount++
		}
		if app.IsAIHost {
			hostCount++
		}
	}
	log.Info("discovery complete", "total", len(apps), "aiApps", aiCount, "aiHostApps", hostCount)

	submitURL := flagSubmit
	if submitURL == "" {
		submitURL = cfg.SubmitURL
	}

	switch {
	case flagYAMLDir != "":
		return writeProfileDir(apps, log)

	case flagYAML:
		for _, app := range apps {
			fmt.Print(export.Profile(app))
			fmt.Println("---")
		}
		return nil

	case submitURL != "":
		payload, err := export.AppsJSON(apps, true)
		if err != nil {
			return fmt.Errorf("failed to encode inventory: %w", err)
		}
		if err := api.NewClient().SubmitInventory(ctx, submitURL, payload); err != nil {
			return fmt.Errorf("failed to submit inventory: %w", err)
		}
		log.Info("inventory submitted", "url", submitURL, "apps", len(apps))
		return nil

	default:
		doc := export.NewDocument(apps, export.CollectHostMeta())
		data, err := doc.MarshalIndent()
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
}

// writeProfileDir writes per-app profiles plus the compact apps.json index
// used by the catalog build step.
func writeProfileDir(apps []*inventory.App, log *slog.Logger) error {
	if err := export.WriteProfiles(flagYAMLDir, apps); err != nil {
		return err
	}

	doc := export.NewDocument(apps, export.CollectHostMeta()).WithoutInlineIcons()
	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	indexPath := filepath.Join(flagYAMLDir, "apps.json")
	if err := os.WriteFile(indexPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", indexPath, err)
	}

	log.Info("profiles written", "dir", flagYAMLDir, "apps", len(apps))
	return nil
}

func filterAI(apps []*inventory.App) []*inventory.App {
	filtered := make([]*inventory.App, 0, len(apps))
	for _, app := range apps {
		if app.IsAIApp || app.IsAIHost {
			filtered = append(filtered, app)
		}
	}
	return filtered
}
