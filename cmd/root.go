package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "texwiz",
	Short: "A command line tool for building Minecraft Pocket Edition texture packs",
}

// Execute starts the root command for texwiz
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Add adds a new command as a subcommand to texwiz
func Add(newCommand *cobra.Command) {
	rootCmd.AddCommand(newCommand)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("store", "", "The directory holding all packs (default is the texwiz data directory)")
	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))

	layout := cmdshared.NewEnum(core.DefaultLayout.Name, core.LayoutNames()...)
	_ = viper.BindPFlag("layout", cmdshared.EnumVarP(rootCmd.PersistentFlags(), layout, "layout", "", "The category layout to use"))

	rootCmd.PersistentFlags().String("library", "", "A directory of base textures to list alongside pack textures")
	_ = viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library"))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every repository step")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().BoolP("non-interactive", "y", false, "Never prompt; use defaults and confirm everything")
	_ = viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))

	rootCmd.PersistentFlags().Bool("auto-save", false, "Back the pack up after every change")
	_ = viper.BindPFlag("auto-save", rootCmd.PersistentFlags().Lookup("auto-save"))

	rootCmd.PersistentFlags().Bool("high-quality-export", false, "Use the slower scaler and maximum PNG compression")
	_ = viper.BindPFlag("high-quality-export", rootCmd.PersistentFlags().Lookup("high-quality-export"))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.texwiz.toml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".texwiz" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".texwiz")
	}

	viper.SetEnvPrefix("texwiz")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
