package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

const quoteEntity = "fuel quote"

const quoteColumns = `id, user_id, gallons_requested, delivery_date, delivery_address,
		suggested_price, total_price, created_at`

// QuoteStore implements ports.QuoteRepository.
type QuoteStore struct {
	db DBTX
}

// NewQuoteStore creates a quote store.
func NewQuoteStore(db DBTX) *QuoteStore {
	return &QuoteStore{db: db}
}

// Insert appends one quote. The returned record carries the amounts as
// stored, rounded to the column scale.
func (s *QuoteStore) Insert(ctx context.Context, data *domain.FuelQuoteData) (*domain.FuelQuote, error) {
	query := `INSERT INTO fuel_quotes
		(user_id, gallons_requested, delivery_date, delivery_address, suggested_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, suggested_price, total_price, created_at`

	record := &domain.FuelQuote{FuelQuoteData: *data}

	err := s.db.QueryRowContext(ctx, query,
		data.UserID,
		data.GallonsRequested,
		data.DeliveryDate,
		data.DeliveryAddress,
		data.SuggestedPrice,
		data.TotalPrice,
	).Scan(&record.ID, &record.SuggestedPrice, &record.TotalPrice, &record.CreatedAt)
	if err != nil {
		return nil, translateError(quoteEntity, err)
	}

	record.CreatedAt = record.CreatedAt.UTC()

	return record, nil
}

// GetByID returns the user's quote with the given id.
func (s *QuoteStore) GetByID(ctx context.Context, userID, id string) (*domain.FuelQuote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewNotFoundError(quoteEntity, id)
	}

	query := `SELECT ` + quoteColumns + `
		FROM fuel_quotes
		WHERE id = $1 AND user_id = $2`

	record, err := scanQuote(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(quoteEntity, id)
		}

		return nil, translateError(quoteEntity, err)
	}

	return record, nil
}

// ListByUser returns a page of the user's quotes, newest first. Pages are
// keyed on (created_at, id) so concurrent inserts never shift them.
func (s *QuoteStore) ListByUser(ctx context.Context, userID string, page domain.PageQuery) ([]*domain.FuelQuote, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if page.After == nil {
		rows, err = s.db.QueryContext(ctx, `SELECT `+quoteColumns+`
			FROM fuel_quotes
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, userID, page.Limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+quoteColumns+`
			FROM fuel_quotes
			WHERE user_id = $1 AND (created_at, id) < ($2, $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $4`, userID, page.After.CreatedAt, page.After.ID, page.Limit)
	}

	if err != nil {
		return nil, translateError(quoteEntity, err)
	}
	defer rows.Close()

	quotes := make([]*domain.FuelQuote, 0, page.Limit)

	for rows.Next() {
		record, err := scanQuote(rows)
		if err != nil {
			return nil, translateError(quoteEntity, err)
		}

		quotes = append(quotes, record)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(quoteEntity, err)
	}

	return quotes, nil
}

// CountByUser returns the number of quotes the user has stored.
func (s *QuoteStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM fuel_quotes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, translateError(quoteEntity, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*domain.FuelQuote, error) {
	var q domain.FuelQuote

	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.GallonsRequested,
		&q.DeliveryDate,
		&q.DeliveryAddress,
		&q.SuggestedPrice,
		&q.TotalPrice,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning quote: %w", err)
	}

	q.CreatedAt = q.CreatedAt.UTC()

	return &q, nil
}
