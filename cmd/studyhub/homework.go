package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/core"
)

var homeworkDue string

var homeworkCmd = &cobra.Command{
	Use:     "homework",
	Aliases: []string{"hw"},
	Short:   "Manage homework",
}

var homeworkAddCmd = &cobra.Command{
	Use:   "add <text> --due YYYY-MM-DD",
	Short: "Add a homework item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		hw, err := s.Hub.AddHomework(cmd.Context(), strings.Join(args, " "), homeworkDue)
		if err != nil {
			return err
		}
		return render(cmd, hw, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, hw.ID)
			return err
		})
	},
}

var homeworkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List homework",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		items := s.Hub.Homeworks()
		return render(cmd, items, func(w io.Writer) error {
			for _, hw := range items {
				fmt.Fprintf(w, "%s %s  %s  (Due: %s)\n", checkbox(hw.Completed), shortID(hw.ID), hw.Text, hw.DueDate)
			}
			return nil
		})
	},
}

var homeworkToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a homework item between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyHomeworks, args[0])
		if err != nil {
			return err
		}
		hw, err := s.Hub.ToggleHomework(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(hw.Completed), hw.Text)
		return nil
	},
}

var homeworkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a homework item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyHomeworks, args[0])
		if err != nil {
			return err
		}
		return s.Hub.DeleteHomework(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(homeworkCmd)
	homeworkCmd.AddCommand(homeworkAddCmd, homeworkListCmd, homeworkToggleCmd, homeworkDeleteCmd)
	homeworkAddCmd.Flags().StringVar(&homeworkDue, "due", "", "Due date (YYYY-MM-DD)")
}
