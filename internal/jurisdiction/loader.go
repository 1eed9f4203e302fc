// Package jurisdiction seeds responsible entities from a GeoJSON
// FeatureCollection. Each feature is one entity; its geometry is the
// jurisdiction and its properties carry the contact details.
package jurisdiction

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type EntityWriter interface {
	Upsert(ctx context.Context, entity *domain.ResponsibleEntity) error
}

type Loader struct {
	entities EntityWriter
	logger   *slog.Logger
}

func NewLoader(entities EntityWriter, logger *slog.Logger) *Loader {
	return &Loader{entities: entities, logger: logger}
}

// LoadFile reads path and upserts every feature. It returns the number stored.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	const op = "jurisdiction.Loader.LoadFile"

	f, err := os.Open(path)
	if err != nil {
		return 0, e.Wrap(op, err)
	}
	defer f.Close()

	return l.Load(ctx, f)
}

func (l *Loader) Load(ctx context.Context, r io.Reader) (int, error) {
	const op = "jurisdiction.Loader.Load"

	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, e.Wrap(op, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, e.ErrValidation, err)
	}

	entities := make([]*domain.ResponsibleEntity, 0, len(fc.Features))
	for i, feat := range fc.Features {
		ent, err := entityFromFeature(feat)
		if err != nil {
			return 0, fmt.Errorf("%s: feature %d: %w", op, i, err)
		}
		entities = append(entities, ent)
	}

	for _, ent := range entities {
		if err := l.entities.Upsert(ctx, ent); err != nil {
			l.logger.Error("failed to store entity",
				slog.String("op", op),
				slog.String("name", ent.Name),
				slog.Any("error", err),
			)
			return 0, e.Dependency(op, err)
		}
	}

	l.logger.Info("jurisdictions loaded", slog.String("op", op), slog.Int("count", len(entities)))
	return len(entities), nil
}

func entityFromFeature(feat *geojson.Feature) (*domain.ResponsibleEntity, error) {
	switch feat.Geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return nil, e.Validation("geometry", fmt.Sprintf("must be a polygon or multipolygon, got %T", feat.Geometry))
	}

	props := feat.Properties
	ent := &domain.ResponsibleEntity{
		Name:         str(props, "name"),
		Category:     domain.OrganizationCategory(str(props, "category")),
		Email:        str(props, "email"),
		Address:      str(props, "address"),
		Phone:        str(props, "phone"),
		Jurisdiction: feat.Geometry,
	}
	if ent.Name == "" {
		return nil, e.Validation("name", "is required")
	}
	if !ent.Category.Valid() {
		return nil, e.Validation("category", fmt.Sprintf("unknown organization category %q", ent.Category))
	}

	// A stable id keeps reseeding idempotent.
	if raw := str(props, "id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, e.Validation("id", err.Error())
		}
		ent.ID = id
	} else {
		ent.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("readyToHelp/entity/"+string(ent.Category)+"/"+ent.Name))
	}
	return ent, nil
}

// str returns the property as a string, or "" when missing or not a string.
func str(props geojson.Properties, key string) string {
	v, _ := props[key].(string)
	return v
}
