package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the internal state of the hub and its store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var c introspection.Introspectable = s.Hub
		state := c.State()
		return render(cmd, state, func(w io.Writer) error {
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "%s\n", data)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
