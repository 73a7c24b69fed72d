package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/config"
	"github.com/goalmate/amatta/internal/services/recommend"
)

// newClient builds a remote client from the environment. userID 0 means
// "use the configured default".
func newClient(userID int) (*recommend.Client, int, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load config: %w", err)
	}
	if userID == 0 {
		userID = cfg.DefaultUserID
	}
	return recommend.NewClient(cfg.UpstreamBaseURL, zap.NewNop()), userID, nil
}
