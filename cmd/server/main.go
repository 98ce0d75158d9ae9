// Command server runs the StudyLoop board.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// envFile is an optional dotenv file read before the environment.
	envFile string

	rootCmd = &cobra.Command{
		Use:   "studyloop",
		Short: "Peer-to-peer Q&A board with video explanations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
