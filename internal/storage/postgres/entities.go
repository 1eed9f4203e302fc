package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

type Entities struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewEntities(pool *pgxpool.Pool, logger *slog.Logger) *Entities {
	return &Entities{pool: pool, logger: logger}
}

// FindContaining relies on ST_Contains, which excludes points on the boundary.
func (r *Entities) FindContaining(ctx context.Context, category domain.OrganizationCategory, p orb.Point) ([]*domain.ResponsibleEntity, error) {
	const op = "postgres.Entities.FindContaining"

	query := `
		SELECT id, name, category, email, address, phone, ST_AsBinary(jurisdiction)
		FROM responsible_entities
		WHERE category = $1
		  AND ST_Contains(jurisdiction, ST_SetSRID(ST_MakePoint($2, $3), 4326))
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, category, p.Lon(), p.Lat())
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var out []*domain.ResponsibleEntity
	for rows.Next() {
		var (
			ent domain.ResponsibleEntity
			raw []byte
		)
		if err := rows.Scan(&ent.ID, &ent.Name, &ent.Category, &ent.Email, &ent.Address, &ent.Phone, &raw); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		if ent.Jurisdiction, err = wkb.Unmarshal(raw); err != nil {
			return nil, fmt.Errorf("%s: decode jurisdiction of %s: %w", op, ent.ID, err)
		}
		out = append(out, &ent)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}

func (r *Entities) Upsert(ctx context.Context, entity *domain.ResponsibleEntity) error {
	const op = "postgres.Entities.Upsert"

	switch entity.Jurisdiction.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return e.Validation("jurisdiction", "must be a polygon or multipolygon")
	}
	raw, err := wkb.Marshal(entity.Jurisdiction)
	if err != nil {
		return fmt.Errorf("%s: encode jurisdiction: %w", op, err)
	}
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}

	query := `
		INSERT INTO responsible_entities (id, name, category, email, address, phone, jurisdiction)
		VALUES ($1, $2, $3, $4, $5, $6, ST_Multi(ST_GeomFromWKB($7, 4326)))
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    category = EXCLUDED.category,
		    email = EXCLUDED.email,
		    address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    jurisdiction = EXCLUDED.jurisdiction
	`
	_, err = r.pool.Exec(ctx, query,
		entity.ID,
		entity.Name,
		entity.Category,
		entity.Email,
		entity.Address,
		entity.Phone,
		raw,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}
