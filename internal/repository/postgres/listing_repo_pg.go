package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/repository/ports"
)

// ListingRepository is the live listing store. Writes go through sqlx; the
// live query rides a dedicated pgx connection listening on a notification
// channel that every write fires.
type ListingRepository struct {
	db      *sqlx.DB
	dsn     string
	table   string
	channel string
}

func NewListingRepo(db *sqlx.DB, dsn, namespace string) *ListingRepository {
	ns := SanitizeNamespace(namespace)
	return &ListingRepository{
		db:      db,
		dsn:     dsn,
		table:   fmt.Sprintf("%q.rental_listing", ns),
		channel: ns + "_rentals_changed",
	}
}

const listingColumns = `id, title, location, description, price, original_price,
		category, media, image_url, amenities, host_phone, created_at, updated_at`

// List returns the complete current collection in creation order. Rows that
// fail to decode are skipped and logged rather than failing the whole read.
func (r *ListingRepository) List(ctx context.Context) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, listingColumns, r.table)

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		var listing domain.Listing
		if err := rows.StructScan(&listing); err != nil {
			log.Printf("listing store: skipping undecodable row: %v", err)
			continue
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) Create(ctx context.Context, rec domain.ListingRecord) (uuid.UUID, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			title, location, description, price, original_price,
			category, media, image_url, amenities, host_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, r.table)

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, query,
		rec.Title, rec.Location, rec.Description, rec.Price, rec.OriginalPrice,
		rec.Category, domain.StringList(rec.Media), rec.ImageURL,
		domain.StringList(rec.Amenities), rec.HostPhone,
	)
	if err != nil {
		return uuid.Nil, err
	}
	r.notify(ctx, "create")
	return id, nil
}

// Update overwrites every known column. Fields absent from the record shape
// do not exist in the schema, so a full overwrite and a merge coincide here.
func (r *ListingRepository) Update(ctx context.Context, id uuid.UUID, rec domain.ListingRecord) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2,
		    location = $3,
		    description = $4,
		    price = $5,
		    original_price = $6,
		    category = $7,
		    media = $8,
		    image_url = $9,
		    amenities = $10,
		    host_phone = $11,
		    updated_at = NOW()
		WHERE id = $1
	`, r.table)

	result, err := r.db.ExecContext(ctx, query, id,
		rec.Title, rec.Location, rec.Description, rec.Price, rec.OriginalPrice,
		rec.Category, domain.StringList(rec.Media), rec.ImageURL,
		domain.StringList(rec.Amenities), rec.HostPhone,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	r.notify(ctx, "update")
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	r.notify(ctx, "delete")
	return nil
}

// Subscribe pushes the full collection to onChange now and after every write
// notification. The initial read failing fails the subscription; after that,
// feed errors end the feed without retry (callers wanting resilience wrap
// their own reconnect policy around the store).
func (r *ListingRepository) Subscribe(ctx context.Context, onChange func([]domain.Listing)) (func(), error) {
	listenCtx, cancel := context.WithCancel(ctx)

	conn, err := pgx.Connect(listenCtx, r.dsn)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe: connect: %w", err)
	}
	if _, err := conn.Exec(listenCtx, fmt.Sprintf(`LISTEN %q`, r.channel)); err != nil {
		cancel()
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("subscribe: listen: %w", err)
	}

	initial, err := r.List(listenCtx)
	if err != nil {
		cancel()
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("subscribe: initial read: %w", err)
	}
	onChange(initial)

	go func() {
		defer func() {
			_ = conn.Close(context.Background())
		}()
		for {
			if _, err := conn.WaitForNotification(listenCtx); err != nil {
				if listenCtx.Err() == nil {
					log.Printf("listing store: live query ended: %v", err)
				}
				return
			}
			items, err := r.List(listenCtx)
			if err != nil {
				if listenCtx.Err() == nil {
					log.Printf("listing store: refresh after notification failed: %v", err)
				}
				continue
			}
			onChange(items)
		}
	}()

	return cancel, nil
}

func (r *ListingRepository) Demo() bool { return false }

func (r *ListingRepository) notify(ctx context.Context, op string) {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, r.channel, op); err != nil {
		log.Printf("listing store: notify %s failed: %v", op, err)
	}
}

var _ ports.ListingStore = (*ListingRepository)(nil)
