package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:          "dnsbot",
	Short:        "Chat bot that manages DNS records through guided dialogues",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "config.yml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "/var/log/", "path to log file directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
