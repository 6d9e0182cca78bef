package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Jokero/webpack.js.org/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsite",
	Short: "Documentation site server with tree-driven navigation",
	Long: `docsite serves a documentation website from a pre-generated content tree.
It derives the top navigation, section sidebars, previous/next links and
routes from the tree, and remembers each visitor's theme preference.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
