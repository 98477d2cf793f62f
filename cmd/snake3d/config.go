package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the built-in default config as YAML, ready for editing.

Without a path the file goes to ~/.snake3d/configs/snake.yaml, which is
picked up automatically. An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config in effect",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

var flagShowDifficulty string

func init() {
	configShowCmd.Flags().StringVar(&flagShowDifficulty, "difficulty", "", "Apply a difficulty preset first")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(_ *cobra.Command, args []string) {
	path := config.UserPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		fail("no home directory; pass a path")
	}
	if err := config.WriteDefault(path); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runConfigShow(_ *cobra.Command, _ []string) {
	cfg := loadConfig(flagShowDifficulty)
	out, err := config.Marshal(cfg)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(out))
}
