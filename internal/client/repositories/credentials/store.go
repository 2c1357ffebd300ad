package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/dbx"
)

// ErrCorrupt is returned by Load when a persisted value cannot be decoded.
var ErrCorrupt = errors.New("corrupt persisted credentials")

// Store persists the session credential pair. Save and Clear run in a
// single transaction so the token never outlives the user record or the
// other way round.
type Store struct {
	db      *sql.DB
	newRepo func(dbx.DBTX) Repository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		newRepo: func(q dbx.DBTX) Repository { return NewSQLiteRepository(q) },
	}
}

// Load returns the persisted token and user. When either key is missing it
// returns ("", nil, nil).
func (s *Store) Load(ctx context.Context) (string, *models.UserRecord, error) {
	repo := s.newRepo(s.db)

	token, err := repo.Get(ctx, KeyToken)
	if err != nil {
		return "", nil, err
	}
	rawUser, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return "", nil, err
	}
	if len(token) == 0 || len(rawUser) == 0 {
		return "", nil, nil
	}

	var user models.UserRecord
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return "", nil, fmt.Errorf("%w: user: %v", ErrCorrupt, err)
	}
	return string(token), &user, nil
}

// Save writes token and user in one transaction.
func (s *Store) Save(ctx context.Context, token string, user *models.UserRecord) error {
	if token == "" || user == nil {
		return fmt.Errorf("save credentials: token and user are both required")
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		if err := repo.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, rawUser)
	})
}

// Clear removes both keys.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		if err := repo.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUser)
	})
}
