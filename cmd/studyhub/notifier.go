package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// cliNotifier prints notices to stderr and asks confirmations on stdin.
type cliNotifier struct {
	out io.Writer
	in  *bufio.Reader
	yes bool
}

func newNotifier(cmd *cobra.Command) *cliNotifier {
	return &cliNotifier{
		out: cmd.ErrOrStderr(),
		in:  bufio.NewReader(cmd.InOrStdin()),
		yes: assumeYes,
	}
}

func (n *cliNotifier) Notify(msg string) {
	fmt.Fprintln(n.out, msg)
}

// Confirm accepts y or yes. Anything else, including EOF, declines.
func (n *cliNotifier) Confirm(prompt string) bool {
	if n.yes {
		return true
	}
	fmt.Fprintf(n.out, "%s [y/N]: ", prompt)
	answer, _ := n.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
