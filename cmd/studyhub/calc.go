package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/calc"
)

var calcCmd = &cobra.Command{
	Use:   "calc [keys]",
	Short: "Evaluate calculator key presses",
	Long: `Evaluate calculator key presses left to right, as typed on the keypad:
digits, '.', + - * / and %, '<' for backspace and C to clear. "50%20" is 10.
Without arguments, every line of stdin is evaluated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			display, err := calc.Eval(strings.Join(args, ""))
			fmt.Fprintln(out, display)
			return err
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			display, err := calc.Eval(line)
			if err != nil {
				fmt.Fprintf(out, "%s  (%v)\n", display, err)
				continue
			}
			fmt.Fprintln(out, display)
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
}
