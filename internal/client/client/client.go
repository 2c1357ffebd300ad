package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

// Client is the REST API consumed by the session and progress layers.
// Authenticated calls take the bearer token explicitly.
type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg models.Registration) error
	Me(ctx context.Context, token string) (*models.UserRecord, error)

	UploadResume(ctx context.Context, token, filename string, r io.Reader) (*models.UploadReceipt, error)
	// GetResume reads a résumé by id; an empty id reads the caller's
	// active résumé.
	GetResume(ctx context.Context, token string, id models.ID) (*models.ResumeRecord, error)

	SubmitMatch(ctx context.Context, token string, req models.MatchRequest) (*models.MatchReceipt, error)
	GetMatch(ctx context.Context, token string, id models.ID) (*models.MatchRecord, error)

	AdminStats(ctx context.Context, token string) (*models.AdminStats, error)
}
