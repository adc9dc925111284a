package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Backup is one archive in a pack's backup directory
type Backup struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modTime" yaml:"modTime"`
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, "backup_") && strings.HasSuffix(name, ".zip")
}

// BackupPack zips the pack's textures tree into backup/backup_<ms>.zip and prunes the oldest
// backups so that at most MaxBackups remain. The new backup path is returned.
func (r *Repository) BackupPack(ctx context.Context, id string) (string, error) {
	const op = "backup"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	backupDir := filepath.Join(dir, BackupDir)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", wrapOp(op, id, err)
	}

	dest, err := r.uniqueBackupName(backupDir)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	if err := CreateArchive(dest, dir, ArchiveOptions{Include: []string{TexturesDir}}); err != nil {
		return "", wrapOp(op, id, err)
	}
	if err := r.pruneBackups(backupDir); err != nil {
		return "", wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "backup": filepath.Base(dest)}).Info("Backed up pack")
	return dest, nil
}

func (r *Repository) uniqueBackupName(dir string) (string, error) {
	ms := r.Clock.Now().UnixMilli()
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("backup_%d.zip", ms))
		exists, err := fileExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		ms++
	}
}

func listBackups(dir string) ([]Backup, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var backups []Backup
	for _, e := range entries {
		if !e.Type().IsRegular() || !isBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		backups = append(backups, Backup{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	// Newest first; names carry the timestamp so they break mtime ties
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].ModTime.After(backups[j].ModTime)
		}
		return backupStamp(backups[i].Name) > backupStamp(backups[j].Name)
	})
	return backups, nil
}

// backupStamp extracts the timestamp of a backup_<ms>.zip name, or -1
func backupStamp(name string) int64 {
	ms, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, "backup_"), ".zip"), 10, 64)
	if err != nil {
		return -1
	}
	return ms
}

func (r *Repository) pruneBackups(dir string) error {
	backups, err := listBackups(dir)
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackups {
		return nil
	}
	for _, b := range backups[MaxBackups:] {
		if err := os.Remove(b.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		r.Log.WithField("backup", b.Name).Debug("Pruned backup")
	}
	return nil
}

// ListBackups returns the backups of a pack, newest first
func (r *Repository) ListBackups(ctx context.Context, id string) ([]Backup, error) {
	const op = "list backups"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return nil, wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return nil, wrapOp(op, id, err)
	}
	backups, err := listBackups(filepath.Join(dir, BackupDir))
	return backups, wrapOp(op, id, err)
}

// RestoreBackup replaces the pack's textures with the contents of a backup. The swap is
// done by rename so a failed extraction leaves the current textures untouched.
func (r *Repository) RestoreBackup(ctx context.Context, id, name string) error {
	const op = "restore"
	if !isBackupName(name) || name != filepath.Base(name) {
		return wrapOp(op, id, newValidationError("backup", fmt.Sprintf("%q is not a backup name", name)))
	}
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	src := filepath.Join(dir, BackupDir, name)
	if ok, err := fileExists(src); err != nil {
		return wrapOp(op, id, err)
	} else if !ok {
		return wrapOp(op, id, newValidationError("backup", fmt.Sprintf("%s does not exist", name)))
	}

	// Only staging/textures is swapped in; any other archive entries are dropped with staging
	err = r.swapTextures(dir, func(staging string) error {
		return ExtractArchive(src, staging)
	})
	if err != nil {
		return wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "backup": name}).Info("Restored backup")
	return wrapOp(op, id, r.updateMetadata(id, nil))
}
