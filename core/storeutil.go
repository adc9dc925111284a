package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetTexwizLocalStore returns the per-user data directory of texwiz
func GetTexwizLocalStore() (string, error) {
	if //goland:noinspection GoBoolExpressions
	runtime.GOOS == "linux" {
		// Prefer $XDG_DATA_HOME over the config dir
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome != "" {
			return filepath.Join(dataHome, "texwiz"), nil
		}
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "texwiz"), nil
}

// GetPackStore returns the default pack store root, holding one directory per pack
func GetPackStore() (string, error) {
	localStore, err := GetTexwizLocalStore()
	if err != nil {
		return "", err
	}
	return filepath.Join(localStore, "packs"), nil
}

// GetLibraryPath returns the default location of the base texture library
func GetLibraryPath() (string, error) {
	localStore, err := GetTexwizLocalStore()
	if err != nil {
		return "", err
	}
	return filepath.Join(localStore, "library"), nil
}
