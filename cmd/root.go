package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/postforge/media-mirror/pkg/log"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "media-mirror",
	Short: "mirrors post media into object and folder storage",
	Long:  "Replicates a post's media into an S3-compatible bucket and a collaborative folder, producing a manifest for the publishing step.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetDebug()
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	rootCmd.AddCommand(replicateCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(cleanupCmd())
}
