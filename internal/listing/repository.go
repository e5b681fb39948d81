// AngelaMos | 2026
// repository.go

package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/servicesync/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	List(ctx context.Context, params ListParams) ([]Listing, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Listing, error)
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, item *Item) error
	AddReview(ctx context.Context, review *Review) error
	CountAll(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (
			id, name, category, description, price, contact,
			address, lat, lng, verified, owner_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		l.ID,
		l.Name,
		l.Category,
		l.Description,
		l.Price,
		l.Contact,
		l.Address,
		l.Lat,
		l.Lng,
		l.Verified,
		l.OwnerID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("create listing: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create listing: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `
		SELECT
			id, name, category, description, price, contact,
			address, lat, lng, verified, owner_id, created_at, updated_at
		FROM listings
		WHERE id = $1`

	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	if err := r.loadItems(ctx, &l); err != nil {
		return nil, err
	}
	if err := r.loadReviews(ctx, &l); err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Listing, int, error) {
	where := ""
	args := []any{}
	argPos := 1

	if params.Category != "" {
		where = fmt.Sprintf("WHERE LOWER(category) = LOWER($%d)", argPos)
		args = append(args, params.Category)
		argPos++
	}

	countQuery := "SELECT COUNT(*) FROM listings " + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf(`
		SELECT
			id, name, category, description, price, contact,
			address, lat, lng, verified, owner_id, created_at, updated_at
		FROM listings
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, params.PageSize, offset)

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	if err := r.loadChildren(ctx, listings); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]Listing, error) {
	query := `
		SELECT
			id, name, category, description, price, contact,
			address, lat, lng, verified, owner_id, created_at, updated_at
		FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, ownerID); err != nil {
		return nil, fmt.Errorf("list listings by owner: %w", err)
	}

	if err := r.loadChildren(ctx, listings); err != nil {
		return nil, err
	}

	return listings, nil
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings
		SET name = $2, category = $3, description = $4, price = $5,
		    contact = $6, address = $7, lat = $8, lng = $9, verified = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		l.ID,
		l.Name,
		l.Category,
		l.Description,
		l.Price,
		l.Contact,
		l.Address,
		l.Lat,
		l.Lng,
		l.Verified,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update listing: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM listings WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete listing: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) AddItem(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO listing_items (id, listing_id, name, price, position)
		VALUES (
			$1, $2, $3, $4,
			COALESCE(
				(SELECT MAX(position) + 1 FROM listing_items WHERE listing_id = $2),
				0
			)
		)
		RETURNING position, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID,
		item.ListingID,
		item.Name,
		item.Price,
	).Scan(&item.Position, &item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("add item: %w", core.ErrNotFound)
		}
		return fmt.Errorf("add item: %w", err)
	}

	return nil
}

func (r *repository) AddReview(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO listing_reviews (
			id, listing_id, reviewer_id, reviewer_name, rating, comment
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		review.ID,
		review.ListingID,
		review.ReviewerID,
		review.ReviewerName,
		review.Rating,
		review.Comment,
	).Scan(&review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("add review: %w", core.ErrNotFound)
		}
		return fmt.Errorf("add review: %w", err)
	}

	return nil
}

func (r *repository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM listings`)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

func (r *repository) loadItems(ctx context.Context, l *Listing) error {
	query := `
		SELECT id, listing_id, name, price, position, created_at
		FROM listing_items
		WHERE listing_id = $1
		ORDER BY position ASC`

	l.Items = []Item{}
	if err := r.db.SelectContext(ctx, &l.Items, query, l.ID); err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	return nil
}

func (r *repository) loadReviews(ctx context.Context, l *Listing) error {
	query := `
		SELECT
			id, listing_id, reviewer_id, reviewer_name,
			rating, comment, created_at
		FROM listing_reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC`

	l.Reviews = []Review{}
	if err := r.db.SelectContext(ctx, &l.Reviews, query, l.ID); err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}

	return nil
}

func (r *repository) loadChildren(ctx context.Context, listings []Listing) error {
	for i := range listings {
		if err := r.loadItems(ctx, &listings[i]); err != nil {
			return err
		}
		if err := r.loadReviews(ctx, &listings[i]); err != nil {
			return err
		}
	}
	return nil
}
