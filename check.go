package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"DnsBot/bot/fields"
	"DnsBot/entity"
	"DnsBot/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config file and the record field layouts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := config.Load(configPath); err != nil {
			return err
		}
		registry := fields.DefaultRegistry()
		if err := registry.Check(entity.RecordTypes...); err != nil {
			return fmt.Errorf("field registry: %w", err)
		}
		for _, t := range registry.Types() {
			names, _ := registry.Layout(t)
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %v\n", t, names)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
