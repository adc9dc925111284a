package cmdshared

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/packwiz/texwiz/core"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// NewLogger builds the logger used by commands, at debug level with --verbose
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// LoadSettings decodes the user settings from the current configuration
func LoadSettings() (core.Settings, error) {
	return core.DecodeSettings(map[string]interface{}{
		"auto-save":           viper.Get("auto-save"),
		"high-quality-export": viper.Get("high-quality-export"),
	})
}

// LoadRepository opens the pack store configured by --store, --layout and --library
func LoadRepository() (*core.Repository, error) {
	store := viper.GetString("store")
	if store == "" {
		var err error
		store, err = core.GetPackStore()
		if err != nil {
			return nil, fmt.Errorf("failed to locate pack store: %w", err)
		}
	}
	layout, err := core.LayoutByName(viper.GetString("layout"))
	if err != nil {
		return nil, err
	}
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	opts := []core.Option{
		core.WithLayout(layout),
		core.WithSettings(settings),
		core.WithLogger(NewLogger()),
	}

	libPath := viper.GetString("library")
	if libPath == "" {
		libPath, err = core.GetLibraryPath()
		if err != nil {
			return nil, err
		}
	}
	if info, err := os.Stat(libPath); err == nil && info.IsDir() {
		lib, err := core.LoadLibrary(os.DirFS(libPath), layout)
		if err != nil {
			return nil, fmt.Errorf("failed to load library %s: %w", libPath, err)
		}
		opts = append(opts, core.WithLibrary(lib))
	} else if viper.IsSet("library") && viper.GetString("library") != "" {
		return nil, fmt.Errorf("library %s is not a directory", libPath)
	}

	return core.NewRepository(filepath.Clean(store), opts...)
}

// ResolvePack finds a pack by exact ID, unique ID prefix, or case-insensitive name
func ResolvePack(ctx context.Context, repo *core.Repository, query string) (core.Pack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return core.Pack{}, fmt.Errorf("you must specify a pack")
	}
	packs, err := repo.ListPacks(ctx)
	if err != nil {
		return core.Pack{}, err
	}
	for _, p := range packs {
		if p.ID == query {
			return p, nil
		}
	}

	var matches []core.Pack
	for _, p := range packs {
		if strings.HasPrefix(p.ID, query) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		for _, p := range packs {
			if strings.EqualFold(p.Name, query) {
				matches = append(matches, p)
			}
		}
	}
	switch len(matches) {
	case 0:
		return core.Pack{}, fmt.Errorf("%w: %s", core.ErrPackNotFound, query)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, p := range matches {
		ids[i] = p.ID
	}
	return core.Pack{}, fmt.Errorf("%q matches more than one pack: %s", query, strings.Join(ids, ", "))
}

// LoadPackArg loads the repository and resolves the pack named on the command line,
// exiting on failure
func LoadPackArg(ctx context.Context, query string) (*core.Repository, core.Pack) {
	repo, err := LoadRepository()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	pack, err := ResolvePack(ctx, repo, query)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return repo, pack
}

// AutoBackup backs the pack up when auto-save is enabled. Failures are reported but
// do not fail the command that triggered them.
func AutoBackup(ctx context.Context, repo *core.Repository, id string) {
	if !repo.Settings.AutoSave {
		return
	}
	path, err := repo.BackupPack(ctx, id)
	if err != nil {
		fmt.Printf("Auto-save failed: %v\n", err)
		return
	}
	fmt.Printf("Auto-saved to %s\n", filepath.Base(path))
}
