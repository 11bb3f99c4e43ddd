package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/core"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage saved links",
}

var linkAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Save a link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		link, err := s.Hub.AddLink(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd, link, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, link.ID)
			return err
		})
	},
}

var linkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		links := s.Hub.Links()
		return render(cmd, links, func(w io.Writer) error {
			for _, l := range links {
				fmt.Fprintf(w, "%s  %s  %s\n", shortID(l.ID), l.Name, l.URL)
			}
			return nil
		})
	},
}

var linkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyLinks, args[0])
		if err != nil {
			return err
		}
		return s.Hub.DeleteLink(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.AddCommand(linkAddCmd, linkListCmd, linkDeleteCmd)
}
