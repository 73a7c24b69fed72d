package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalmate/amatta/internal/services/recommend"
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "recommend <what you want to do...>",
		Short: "Ask for a product recommendation",
		Long:  "Ask the service to match free text with a purchasable product or a bare task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, uid, err := newClient(userID)
			if err != nil {
				return err
			}

			rec, err := client.Recommend(context.Background(), uid, strings.Join(args, " "))
			switch {
			case errors.Is(err, recommend.ErrUnintelligible):
				fmt.Println("The service could not make sense of that request.")
				return nil
			case errors.Is(err, recommend.ErrNoMatch):
				fmt.Println("No results.")
				return nil
			case err != nil:
				return fmt.Errorf("recommendation failed: %w", err)
			}

			fmt.Printf("Task:     %s\n", rec.Title)
			if rec.TaskOnly {
				fmt.Println("No purchasable product matched; add it as a plain task.")
				return nil
			}
			fmt.Printf("Product:  %s\n", rec.Description)
			fmt.Printf("Link:     %s\n", rec.URL)
			fmt.Printf("Category: %s\n", rec.Category)
			fmt.Printf("Price:    %d\n", rec.Price)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "User ID (defaults to DEFAULT_USER_ID)")
	return cmd
}
