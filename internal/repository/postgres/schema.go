package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the namespace schema and the listing table on boot.
// The namespace segment keeps independent deployments apart inside one
// database, mirroring the collection path the stored documents live under.
func EnsureSchema(ctx context.Context, db *sqlx.DB, namespace string) error {
	ns := SanitizeNamespace(namespace)

	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, ns),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %q.rental_listing (
				id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
				title          text NOT NULL,
				location       text NOT NULL,
				description    text NOT NULL,
				price          double precision NOT NULL,
				original_price double precision,
				category       text NOT NULL DEFAULT 'beach',
				media          text[] NOT NULL DEFAULT '{}',
				image_url      text NOT NULL DEFAULT '',
				amenities      text[] NOT NULL DEFAULT '{}',
				host_phone     text NOT NULL DEFAULT '',
				created_at     timestamptz NOT NULL DEFAULT NOW(),
				updated_at     timestamptz NOT NULL DEFAULT NOW()
			)`, ns),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SanitizeNamespace reduces a configured namespace to a safe identifier
// usable as a schema name and a notification channel prefix.
func SanitizeNamespace(namespace string) string {
	ns := strings.ToLower(strings.TrimSpace(namespace))
	if ns == "" {
		ns = "default"
	}
	var b strings.Builder
	for _, r := range ns {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "ns_" + out
	}
	return out
}
