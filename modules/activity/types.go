package activity

import (
	"context"

	"github.com/example/task-manager/domain/apperror"
)

// ListActivityRequest is the request for the list-activity service.
type ListActivityRequest struct {
	UserID string `json:"user_id"`
}

// ListActivityResponse carries the user's feed, newest first.
type ListActivityResponse struct {
	Entries []Entry           `json:"entries"`
	Error   *apperror.Payload `json:"error,omitempty"`
}

// ActivityPort reads the activity feed from other modules.
type ActivityPort interface {
	ListActivity(ctx context.Context, userID string) ([]Entry, error)
}
