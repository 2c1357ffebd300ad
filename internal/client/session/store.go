package session

import (
	"context"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

// CredentialStore persists the token and user pair. Save and Clear must be
// atomic over both values; Load returns ("", nil, nil) when no session is
// stored. credentials.Store is the SQLite implementation.
type CredentialStore interface {
	Load(ctx context.Context) (string, *models.UserRecord, error)
	Save(ctx context.Context, token string, user *models.UserRecord) error
	Clear(ctx context.Context) error
}
