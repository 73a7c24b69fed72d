package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalmate/amatta/internal/services/recommend"
	"github.com/goalmate/amatta/internal/validation"
)

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	var userID int
	var link string

	cmd := &cobra.Command{
		Use:   "add <task...>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := validation.SanitizeText(strings.Join(args, " "))
			if task == "" {
				return fmt.Errorf("task must not be empty")
			}

			client, uid, err := newClient(userID)
			if err != nil {
				return err
			}

			_, err = client.AddTodo(context.Background(), recommend.AddTodoRequest{
				Task:   task,
				Link:   link,
				UserID: uid,
			})
			if err != nil {
				return fmt.Errorf("failed to add todo: %w", err)
			}

			fmt.Printf("Added: %s\n", task)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "User ID (defaults to DEFAULT_USER_ID)")
	cmd.Flags().StringVar(&link, "link", "", "Optional product link")
	return cmd
}
