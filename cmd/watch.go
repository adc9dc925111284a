package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// newWatchSaver returns the AutoSaver driven by watch, or an error when auto-save is
// switched off
func newWatchSaver(repo *core.Repository, delay time.Duration) (*core.AutoSaver, error) {
	if !repo.Settings.AutoSave {
		return nil, errors.New("auto-save is disabled; enable it with --auto-save or the auto-save setting")
	}
	return core.NewAutoSaver(repo, delay), nil
}

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [pack]",
	Short: "Back a pack up automatically while its textures are edited by other programs",
	Long: `Watch the textures of a pack and back the pack up once changes have settled.
Requires auto-save to be enabled.
Runs until interrupted; pending backups are written before exiting.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		saver, err := newWatchSaver(repo, viper.GetDuration("watch.delay"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		texturesDir := filepath.Join(repo.PackDir(pack.ID), core.TexturesDir)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer watcher.Close()
		if err := watchTree(watcher, texturesDir); err != nil {
			fmt.Printf("Failed to watch %s: %s\n", texturesDir, err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", texturesDir)
		for {
			select {
			case <-ctx.Done():
				err := saver.Flush(cmd.Context())
				saver.Close()
				if err != nil {
					fmt.Println(err)
					os.Exit(1)
				}
				fmt.Println("Stopped watching")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Staging and temporary files are our own writes
				base := filepath.Base(event.Name)
				if strings.HasPrefix(base, ".") {
					continue
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watchTree(watcher, event.Name); err != nil {
							repo.Log.WithError(err).WithField("dir", event.Name).Warn("Failed to watch new directory")
						}
					}
				}
				repo.Log.WithField("event", event.String()).Debug("Texture change")
				saver.Touch(pack.ID)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				repo.Log.WithError(err).Warn("Watcher error")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("delay", core.DefaultAutoSaveDelay, "How long changes must settle before a backup is made")
	_ = viper.BindPFlag("watch.delay", watchCmd.Flags().Lookup("delay"))
}
