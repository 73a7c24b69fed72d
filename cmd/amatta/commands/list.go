package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goalmate/amatta/internal/models"
	"github.com/goalmate/amatta/internal/validation"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var userID int
	var listType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Long:  "List active or completed todos for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateListStatus(listType); err != nil {
				return err
			}

			client, uid, err := newClient(userID)
			if err != nil {
				return err
			}

			todos, err := client.ListTodos(context.Background(), uid, models.ListStatus(listType))
			if err != nil {
				return fmt.Errorf("failed to fetch todos: %w", err)
			}

			if len(todos) == 0 {
				fmt.Println("No todos")
				return nil
			}

			for _, todo := range todos {
				mark := " "
				if todo.Completed {
					mark = "x"
				}
				fmt.Printf("[%s] %d  %s\n", mark, todo.ID, todo.Title)
				if todo.URL != "" {
					fmt.Printf("        %s\n", todo.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "User ID (defaults to DEFAULT_USER_ID)")
	cmd.Flags().StringVar(&listType, "type", "uncompletion", "List type: uncompletion or completion")
	return cmd
}
