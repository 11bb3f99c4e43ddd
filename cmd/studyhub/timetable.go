package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/core"
)

var weekdayNames = [core.Weekdays]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Show and edit the weekly timetable",
}

var timetableShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the timetable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rows := s.Hub.Timetable()
		return render(cmd, rows, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Time\t%s\n", strings.Join(weekdayNames[:], "\t"))
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", r.Time, strings.Join(r.Classes[:], "\t"))
			}
			return tw.Flush()
		})
	},
}

var timetableSetCmd = &cobra.Command{
	Use:   "set <time> <day> <class>",
	Short: "Set the class for one slot",
	Long: `Set the class for one slot. <time> is the row label (e.g. "10:00 AM"),
<day> a weekday name, its first three letters, or 1-5.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseWeekday(args[1])
		if err != nil {
			return err
		}

		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return s.Hub.SetClass(cmd.Context(), args[0], day, strings.Join(args[2:], " "))
	},
}

var timetableResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the empty default timetable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return s.Hub.ResetTimetable(cmd.Context())
	},
}

// parseWeekday maps a day name, prefix or 1-based number to a column.
func parseWeekday(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > core.Weekdays {
			return 0, core.Invalid("day", fmt.Sprintf("day must be between 1 and %d", core.Weekdays))
		}
		return n - 1, nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if strings.HasPrefix(strings.ToLower(name), s) {
				return i, nil
			}
		}
	}
	return 0, core.Invalid("day", fmt.Sprintf("unknown weekday %q", s))
}

func init() {
	rootCmd.AddCommand(timetableCmd)
	timetableCmd.AddCommand(timetableShowCmd, timetableSetCmd, timetableResetCmd)
}
