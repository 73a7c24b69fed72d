package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/config"
	"github.com/goalmate/amatta/internal/metadata"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <url>",
		Short: "Show preview metadata for a page",
		Long:  "Fetch a page and print its Open Graph image and favicon, the way the server decorates product links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			extractor := metadata.NewExtractor(cfg.MetadataTimeout, zap.NewNop())
			preview := extractor.Extract(context.Background(), args[0])

			if preview.Image == "" && preview.Favicon == "" {
				fmt.Println("No preview metadata found")
				return nil
			}
			if preview.Image != "" {
				fmt.Printf("og:image: %s\n", preview.Image)
			}
			if preview.Favicon != "" {
				fmt.Printf("favicon:  %s\n", preview.Favicon)
			}
			return nil
		},
	}

	return cmd
}
