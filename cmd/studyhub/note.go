package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/hub"
)

var (
	noteText  string
	noteFile  string
	noteTitle string
	noteRaw   bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a note and open it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		note, err := s.Hub.CreateNote(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return render(cmd, note, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, note.ID)
			return err
		})
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes; the open one is marked with *",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		notes := s.Hub.Notes()
		active := s.Hub.ActiveNoteID()
		return render(cmd, notes, func(w io.Writer) error {
			for _, n := range notes {
				marker := " "
				if n.ID == active {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s  %s  (%s)\n", marker, shortID(n.ID), n.Title, humanize.Time(n.CreatedAt))
			}
			return nil
		})
	},
}

var noteOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a note, saving the current one first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyNotes, args[0])
		if err != nil {
			return err
		}
		if err := s.Hub.SwitchActive(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %q\n", s.editor.Title())
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a note (default: the open note)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id := s.Hub.ActiveNoteID()
		if len(args) == 1 {
			if id, err = s.Hub.Resolve(core.KeyNotes, args[0]); err != nil {
				return err
			}
		}
		if id == "" {
			return core.ErrNoActiveNote
		}

		note, ok := s.Hub.Note(id)
		if !ok {
			return core.NotFound("note", id)
		}
		return render(cmd, note, func(w io.Writer) error {
			body := note.Content
			if !noteRaw {
				body = hub.PlainText(body)
			}
			fmt.Fprintf(w, "# %s\n\n%s\n", note.Title, strings.TrimRight(body, "\n"))
			return nil
		})
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Replace the open note's text and save it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := noteText
		switch {
		case noteFile == "-":
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(data)
		case noteFile != "":
			data, err := os.ReadFile(noteFile)
			if err != nil {
				return err
			}
			text = string(data)
		case !cmd.Flags().Changed("text"):
			return fmt.Errorf("one of --text or --file is required")
		}

		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if s.Hub.ActiveNoteID() == "" {
			return core.ErrNoActiveNote
		}
		s.editor.SetContents(hub.TextDocument(text))
		_, err = s.Hub.SaveActive(cmd.Context())
		return err
	},
}

var noteSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the open note, optionally renaming it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		note, err := s.Hub.SaveActive(cmd.Context())
		if err != nil {
			return err
		}
		if noteTitle != "" {
			_, err = s.Hub.RenameNote(cmd.Context(), note.ID, noteTitle)
		}
		return err
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyNotes, args[0])
		if err != nil {
			return err
		}
		return s.Hub.DeleteNote(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteNewCmd, noteListCmd, noteOpenCmd, noteShowCmd, noteEditCmd, noteSaveCmd, noteDeleteCmd)

	noteShowCmd.Flags().BoolVar(&noteRaw, "raw", false, "Print the stored editor document")
	noteEditCmd.Flags().StringVar(&noteText, "text", "", "New note text")
	noteEditCmd.Flags().StringVarP(&noteFile, "file", "f", "", "Read the note text from a file (- for stdin)")
	noteSaveCmd.Flags().StringVar(&noteTitle, "title", "", "Rename the note")
}
