package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var darkmodeCmd = &cobra.Command{
	Use:   "darkmode",
	Short: "Show or flip the dark mode preference",
}

var darkmodeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the dark mode preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Fprintln(cmd.OutOrStdout(), s.Hub.Preferences().DarkModeValue())
		return nil
	},
}

var darkmodeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the dark mode preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.Hub.ToggleDarkMode(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Hub.Preferences().DarkModeValue())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(darkmodeCmd)
	darkmodeCmd.AddCommand(darkmodeStatusCmd, darkmodeToggleCmd)
}
