package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/david1155/npmsemver/internal/manifest"
	"github.com/david1155/npmsemver/internal/registry"
	"github.com/david1155/npmsemver/pkg/config"
	"github.com/david1155/npmsemver/pkg/version"
)

func processManifest(cfg *config.Config, manifestPath string, dryRun bool) error {
	mode, err := registry.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	filter, err := config.ParseFilter(cfg.Filter)
	if err != nil {
		return err
	}

	man, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}

	current := man.Merged(cfg.IncludeDependencies(), cfg.IncludeDevDependencies(), filter)
	if len(current) == 0 {
		log.Printf("No dependencies to check in %s", manifestPath)
		return nil
	}

	names := make([]string, 0, len(current))
	for name := range current {
		names = append(names, name)
	}
	sort.Strings(names)

	client := registry.NewClient(cfg.Registry,
		registry.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))

	log.Printf("Checking %d dependencies against %s (%s)", len(names), cfg.Registry, mode)
	latest, failures := client.LookupAll(context.Background(), names, mode, cfg.Concurrency)

	for _, name := range names {
		if lookupErr, ok := failures[name]; ok {
			log.Printf("Warning: could not resolve %q: %v", name, lookupErr)
		}
	}

	upgraded := version.UpgradeDependencies(current, latest)
	if len(upgraded) == 0 {
		log.Printf("All dependencies match the %s versions", mode)
		return nil
	}

	changes := make(map[string]manifest.Change, len(upgraded))
	for name, declaration := range upgraded {
		changes[name] = manifest.Change{Old: current[name], New: declaration}
	}

	for _, name := range names {
		change, ok := changes[name]
		if !ok {
			continue
		}
		if dryRun {
			fmt.Printf("[DRY RUN] Would change %s from '%s' to '%s'\n", name, change.Old, change.New)
		} else {
			fmt.Printf("Changed %s from '%s' to '%s'\n", name, change.Old, change.New)
		}
	}

	if dryRun {
		return nil
	}

	patched := manifest.Patch(man.Raw, changes)
	if err := manifest.Write(manifestPath, patched); err != nil {
		return err
	}
	log.Printf("Updated %s (%d dependencies)", manifestPath, len(changes))
	return nil
}

func mainWithFlags(args []string, workDir string) error {
	// Create a new flag set
	flags := flag.NewFlagSet("npmsemver", flag.ContinueOnError)

	// Set custom usage message
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: npmsemver [options]\n\n")
		fmt.Fprintf(os.Stderr, "A tool for upgrading package.json version declarations toward the newest registry releases.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
	}

	// Define flags
	configFile := flags.String("config", "", "Path to config file (JSON or YAML)")
	manifestPath := flags.String("manifest", "", "Path to package.json (default: package.json in the working directory)")
	registryURL := flags.String("registry", "", "Registry base URL (overrides config)")
	mode := flags.String("mode", "", "Target selection mode: latest or greatest (overrides config)")
	filterSpec := flags.String("filter", "", "Dependency filter: name list or /regex/ (overrides config)")
	prodOnly := flags.Bool("prod", false, "Only consider the dependencies group")
	devOnly := flags.Bool("dev", false, "Only consider the devDependencies group")
	dryRun := flags.Bool("dry-run", false, "Preview changes without modifying the manifest")
	help := flags.Bool("help", false, "Display help information")

	// Parse flags
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	// Show help if requested
	if *help {
		flags.Usage()
		return nil
	}

	cfg := &config.Config{}
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	// Command-line flags override config file values
	if *registryURL != "" {
		cfg.Registry = *registryURL
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *filterSpec != "" {
		cfg.Filter = *filterSpec
	}
	if *prodOnly && !*devOnly {
		off := false
		cfg.DevDependencies = &off
	}
	if *devOnly && !*prodOnly {
		off := false
		cfg.Dependencies = &off
	}
	cfg.ApplyDefaults()

	path := *manifestPath
	if path == "" {
		path = filepath.Join(workDir, "package.json")
	}

	return processManifest(cfg, path, *dryRun)
}

func main() {
	workDir, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	if err := mainWithFlags(os.Args[1:], workDir); err != nil {
		log.Fatal(err)
	}
}
