package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCompleteCmd creates the complete command
func NewCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a todo as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid todo id %q", args[0])
			}

			client, _, err := newClient(0)
			if err != nil {
				return err
			}

			todo, err := client.CompleteTodo(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to complete todo: %w", err)
			}

			fmt.Printf("Completed: %s\n", todo.Title)
			return nil
		},
	}

	return cmd
}
