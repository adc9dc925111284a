package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func genCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

var completionExt = map[string]string{
	"bash":       "sh",
	"zsh":        "zsh",
	"fish":       "fish",
	"powershell": "ps1",
}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash/fish/powershell/zsh]",
	Short: "Generates bash/fish/powershell/zsh completion scripts",
	Long: `Generates bash/fish/powershell/zsh completion scripts, printing them or, with --save, writing them to the texwiz data directory.
Source the printed script from your shell profile to enable completion.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "fish", "powershell", "zsh"},
	Run: func(cmd *cobra.Command, args []string) {
		if !viper.GetBool("utils.completion.save") {
			if err := genCompletion(cmd.Root(), args[0], os.Stdout); err != nil {
				fmt.Printf("Error generating completion file: %s\n", err)
				os.Exit(1)
			}
			return
		}

		dir, err := core.GetTexwizLocalStore()
		if err != nil {
			fmt.Printf("Error saving completion file: %s\n", err)
			os.Exit(1)
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			fmt.Printf("Error saving completion file: %s\n", err)
			os.Exit(1)
		}
		file := filepath.Join(dir, "completion."+completionExt[args[0]])
		f, err := os.Create(file)
		if err != nil {
			fmt.Printf("Error saving completion file: %s\n", err)
			os.Exit(1)
		}
		err = genCompletion(cmd.Root(), args[0], f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			fmt.Printf("Error saving completion file: %s\n", err)
			os.Exit(1)
		}
		fmt.Println("Completions saved to " + file)
		fmt.Println("Source this file from your shell profile to load them.")
	},
}

func init() {
	utilsCmd.AddCommand(completionCmd)

	completionCmd.Flags().Bool("save", false, "Save the script to the texwiz data directory rather than printing it")
	_ = viper.BindPFlag("utils.completion.save", completionCmd.Flags().Lookup("save"))
}
