package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/core"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the to-do list",
}

var todoAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a to-do",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		todo, err := s.Hub.AddTodo(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return render(cmd, todo, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, todo.ID)
			return err
		})
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-dos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		todos := s.Hub.Todos()
		return render(cmd, todos, func(w io.Writer) error {
			for _, t := range todos {
				fmt.Fprintf(w, "%s %s  %s\n", checkbox(t.Completed), shortID(t.ID), t.Text)
			}
			return nil
		})
	},
}

var todoToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a to-do between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyTodos, args[0])
		if err != nil {
			return err
		}
		todo, err := s.Hub.ToggleTodo(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(todo.Completed), todo.Text)
		return nil
	},
}

var todoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a to-do",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyTodos, args[0])
		if err != nil {
			return err
		}
		return s.Hub.DeleteTodo(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoAddCmd, todoListCmd, todoToggleCmd, todoDeleteCmd)
}
