// Package cmd implements the CLI commands for go2hand.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "go2hand",
	Short: "Pre-owned electronics marketplace API",
	Long:  "API server for the go2hand marketplace: browse and search inspected pre-owned devices, view seller profiles and reviews, and manage orders.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
