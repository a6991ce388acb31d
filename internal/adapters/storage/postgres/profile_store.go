package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

const profileEntity = "delivery profile"

// ProfileStore implements ports.ProfileRepository.
type ProfileStore struct {
	db DBTX
}

// NewProfileStore creates a profile store.
func NewProfileStore(db DBTX) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetByUserID returns the user's profile.
func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (*domain.DeliveryProfile, error) {
	query := `SELECT user_id, full_name, address1, address2, city, state, zipcode, updated_at
		FROM delivery_profiles
		WHERE user_id = $1`

	p := &domain.DeliveryProfile{}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.FullName, &p.Address1, &p.Address2, &p.City, &p.State, &p.Zipcode, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(profileEntity, "")
		}

		return nil, translateError(profileEntity, err)
	}

	p.UpdatedAt = p.UpdatedAt.UTC()

	return p, nil
}

// Save upserts the profile keyed by user id.
func (s *ProfileStore) Save(ctx context.Context, profile *domain.DeliveryProfile) (*domain.DeliveryProfile, error) {
	query := `INSERT INTO delivery_profiles
		(user_id, full_name, address1, address2, city, state, zipcode, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			address1 = EXCLUDED.address1,
			address2 = EXCLUDED.address2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zipcode = EXCLUDED.zipcode,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	saved := *profile

	err := s.db.QueryRowContext(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.Address1,
		profile.Address2,
		profile.City,
		profile.State,
		profile.Zipcode,
		profile.UpdatedAt,
	).Scan(&saved.UpdatedAt)
	if err != nil {
		return nil, translateError(profileEntity, err)
	}

	saved.UpdatedAt = saved.UpdatedAt.UTC()

	return &saved, nil
}
