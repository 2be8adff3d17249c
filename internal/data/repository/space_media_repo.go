package repository

import (
	"context"
	"fmt"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AmenityRepository interface {
	// Upsert replaces the amenities row of the space.
	Upsert(ctx context.Context, amenities *entity.SpaceAmenities) error
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*entity.SpaceAmenities, error)
	FindBySpaceIDs(ctx context.Context, spaceIDs []uuid.UUID) (map[uuid.UUID]*entity.SpaceAmenities, error)
}

type ImageRepository interface {
	// ReplaceAll swaps the image set of a space in one transaction.
	ReplaceAll(ctx context.Context, spaceID uuid.UUID, images []*entity.SpaceImage) error
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*entity.SpaceImage, error)
	FindBySpaceIDs(ctx context.Context, spaceIDs []uuid.UUID) (map[uuid.UUID][]*entity.SpaceImage, error)
}

type amenityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAmenityRepository(db database.PgxIface, log *zap.Logger) AmenityRepository {
	return &amenityRepository{
		db:  db,
		log: log.With(zap.String("repository", "amenity")),
	}
}

const amenityColumns = `id, space_id, electricity, water_access, restrooms, parking, wifi, storage,
	security_camera, covered, high_traffic, garbage_access, water_dump, created_at`

func amenityFields(a *entity.SpaceAmenities) []any {
	return []any{
		&a.ID,
		&a.SpaceID,
		&a.Electricity,
		&a.WaterAccess,
		&a.Restrooms,
		&a.Parking,
		&a.Wifi,
		&a.Storage,
		&a.SecurityCamera,
		&a.Covered,
		&a.HighTraffic,
		&a.GarbageAccess,
		&a.WaterDump,
		&a.CreatedAt,
	}
}

func (r *amenityRepository) Upsert(ctx context.Context, a *entity.SpaceAmenities) error {
	query := `
		INSERT INTO space_amenities (` + amenityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (space_id) DO UPDATE
		SET electricity = EXCLUDED.electricity, water_access = EXCLUDED.water_access,
		    restrooms = EXCLUDED.restrooms, parking = EXCLUDED.parking, wifi = EXCLUDED.wifi,
		    storage = EXCLUDED.storage, security_camera = EXCLUDED.security_camera,
		    covered = EXCLUDED.covered, high_traffic = EXCLUDED.high_traffic,
		    garbage_access = EXCLUDED.garbage_access, water_dump = EXCLUDED.water_dump
	`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.SpaceID,
		a.Electricity,
		a.WaterAccess,
		a.Restrooms,
		a.Parking,
		a.Wifi,
		a.Storage,
		a.SecurityCamera,
		a.Covered,
		a.HighTraffic,
		a.GarbageAccess,
		a.WaterDump,
		a.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to save amenities", zap.Error(err), zap.String("space_id", a.SpaceID.String()))
		return fmt.Errorf("save amenities for space %s: %w", a.SpaceID.String(), err)
	}

	return nil
}

func (r *amenityRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*entity.SpaceAmenities, error) {
	query := `SELECT ` + amenityColumns + ` FROM space_amenities WHERE space_id = $1`

	var a entity.SpaceAmenities
	err := r.db.QueryRow(ctx, query, spaceID).Scan(amenityFields(&a)...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find amenities", zap.Error(err), zap.String("space_id", spaceID.String()))
		return nil, fmt.Errorf("find amenities for space %s: %w", spaceID.String(), err)
	}

	return &a, nil
}

func (r *amenityRepository) FindBySpaceIDs(ctx context.Context, spaceIDs []uuid.UUID) (map[uuid.UUID]*entity.SpaceAmenities, error) {
	out := make(map[uuid.UUID]*entity.SpaceAmenities, len(spaceIDs))
	if len(spaceIDs) == 0 {
		return out, nil
	}

	query := `SELECT ` + amenityColumns + ` FROM space_amenities WHERE space_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, spaceIDs)
	if err != nil {
		r.log.Error("Failed to list amenities", zap.Error(err), zap.Int("spaces", len(spaceIDs)))
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.SpaceAmenities
		if err := rows.Scan(amenityFields(&a)...); err != nil {
			r.log.Error("Failed to scan amenities row", zap.Error(err))
			return nil, fmt.Errorf("scan amenities row: %w", err)
		}
		out[a.SpaceID] = &a
	}

	return out, rows.Err()
}

type imageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewImageRepository(db database.PgxIface, log *zap.Logger) ImageRepository {
	return &imageRepository{
		db:  db,
		log: log.With(zap.String("repository", "image")),
	}
}

const imageColumns = `id, space_id, image_url, is_primary, display_order, created_at`

func imageFields(img *entity.SpaceImage) []any {
	return []any{
		&img.ID,
		&img.SpaceID,
		&img.ImageURL,
		&img.IsPrimary,
		&img.DisplayOrder,
		&img.CreatedAt,
	}
}

func (r *imageRepository) ReplaceAll(ctx context.Context, spaceID uuid.UUID, images []*entity.SpaceImage) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM space_images WHERE space_id = $1`, spaceID); err != nil {
			return fmt.Errorf("clear images: %w", err)
		}

		query := `INSERT INTO space_images (` + imageColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
		for _, img := range images {
			_, err := tx.Exec(ctx, query, img.ID, spaceID, img.ImageURL, img.IsPrimary, img.DisplayOrder, img.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert image %d: %w", img.DisplayOrder, err)
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to save images",
			zap.Error(err),
			zap.String("space_id", spaceID.String()),
			zap.Int("count", len(images)),
		)
		return fmt.Errorf("save images for space %s: %w", spaceID.String(), err)
	}

	return nil
}

func (r *imageRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*entity.SpaceImage, error) {
	byID, err := r.FindBySpaceIDs(ctx, []uuid.UUID{spaceID})
	if err != nil {
		return nil, err
	}
	return byID[spaceID], nil
}

func (r *imageRepository) FindBySpaceIDs(ctx context.Context, spaceIDs []uuid.UUID) (map[uuid.UUID][]*entity.SpaceImage, error) {
	out := make(map[uuid.UUID][]*entity.SpaceImage, len(spaceIDs))
	if len(spaceIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT ` + imageColumns + `
		FROM space_images
		WHERE space_id = ANY($1)
		ORDER BY space_id, display_order
	`

	rows, err := r.db.Query(ctx, query, spaceIDs)
	if err != nil {
		r.log.Error("Failed to list images", zap.Error(err), zap.Int("spaces", len(spaceIDs)))
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img entity.SpaceImage
		if err := rows.Scan(imageFields(&img)...); err != nil {
			r.log.Error("Failed to scan image row", zap.Error(err))
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		out[img.SpaceID] = append(out[img.SpaceID], &img)
	}

	return out, rows.Err()
}
