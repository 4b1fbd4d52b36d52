// Package cli wires the cobra commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	log zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "arbshift",
	Short: "arbshift - move hardcoded strings into the translation catalog",
	Long: `arbshift scans a source tree for hardcoded user-facing string literals,
adds the translatable ones to the ARB catalog, and rewrites the source to
reference the catalog instead of embedding text.

Strings built with concatenation or interpolation are never rewritten
automatically; they are annotated with a marker comment for a human to
restructure. Re-running the tool is safe: nothing is ever processed twice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("arbshift v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.arbshift.yaml, then $HOME/.arbshift/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Project config first, then the home directory.
		viper.AddConfigPath(".")
		viper.SetConfigName(".arbshift")
		viper.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.arbshift")
		}
	}

	// Read in environment variables that match ARBSHIFT_*
	viper.SetEnvPrefix("ARBSHIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// initLogger sets up the console logger; colors only on a real terminal.
func initLogger() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}
	log = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
