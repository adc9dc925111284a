package settings

import (
	"github.com/packwiz/texwiz/cmd"
	"github.com/spf13/cobra"
)

// settingsCmd represents the base command when called without any subcommands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage pack and user settings",
}

func init() {
	cmd.Add(settingsCmd)
}
