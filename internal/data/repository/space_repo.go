package repository

import (
	"context"
	"fmt"
	"strings"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SpaceRepository interface {
	Create(ctx context.Context, space *entity.Space) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Space, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.SpaceDetail, error)
	FindActive(ctx context.Context, filter entity.SpaceFilter, limit, offset int) ([]*entity.Space, error)
	CountActive(ctx context.Context, filter entity.SpaceFilter) (int64, error)
	Update(ctx context.Context, space *entity.Space) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SpaceStatus) error
}

type spaceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSpaceRepository(db database.PgxIface, log *zap.Logger) SpaceRepository {
	return &spaceRepository{
		db:  db,
		log: log.With(zap.String("repository", "space")),
	}
}

const spaceColumns = `s.id, s.owner_id, s.title, s.description, s.address, s.city, s.state, s.zip_code,
	s.latitude, s.longitude, s.space_type, s.size_sqft, s.price_per_day_cents, s.price_per_week_cents,
	s.price_per_month_cents, s.instant_book, s.status, s.allowed_usage_types, s.operating_hours,
	s.additional_terms, s.created_at, s.updated_at`

func spaceFields(space *entity.Space) []any {
	return []any{
		&space.ID,
		&space.OwnerID,
		&space.Title,
		&space.Description,
		&space.Address,
		&space.City,
		&space.State,
		&space.ZipCode,
		&space.Latitude,
		&space.Longitude,
		&space.SpaceType,
		&space.SizeSqft,
		&space.PricePerDayCents,
		&space.PricePerWeekCents,
		&space.PricePerMonthCents,
		&space.InstantBook,
		&space.Status,
		&space.AllowedUsageTypes,
		&space.OperatingHours,
		&space.AdditionalTerms,
		&space.CreatedAt,
		&space.UpdatedAt,
	}
}

func usageTypes(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (r *spaceRepository) Create(ctx context.Context, space *entity.Space) error {
	query := `
		INSERT INTO spaces (id, owner_id, title, description, address, city, state, zip_code,
		                    latitude, longitude, space_type, size_sqft, price_per_day_cents,
		                    price_per_week_cents, price_per_month_cents, instant_book, status,
		                    allowed_usage_types, operating_hours, additional_terms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.Exec(ctx, query,
		space.ID,
		space.OwnerID,
		space.Title,
		space.Description,
		space.Address,
		space.City,
		space.State,
		space.ZipCode,
		space.Latitude,
		space.Longitude,
		space.SpaceType,
		space.SizeSqft,
		space.PricePerDayCents,
		space.PricePerWeekCents,
		space.PricePerMonthCents,
		space.InstantBook,
		space.Status,
		usageTypes(space.AllowedUsageTypes),
		space.OperatingHours,
		space.AdditionalTerms,
		space.CreatedAt,
		space.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create space",
			zap.Error(err),
			zap.String("owner_id", space.OwnerID.String()),
			zap.String("title", space.Title),
		)
		return fmt.Errorf("create space %s: %w", space.Title, err)
	}

	return nil
}

func (r *spaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Space, error) {
	query := `SELECT ` + spaceColumns + ` FROM spaces s WHERE s.id = $1`

	var space entity.Space
	err := r.db.QueryRow(ctx, query, id).Scan(spaceFields(&space)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find space by ID",
			zap.Error(err),
			zap.String("space_id", id.String()),
		)
		return nil, fmt.Errorf("find space by ID %s: %w", id.String(), err)
	}

	return &space, nil
}

func (r *spaceRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.SpaceDetail, error) {
	query := `
		SELECT ` + spaceColumns + `,
		       u.id, u.first_name, u.last_name, u.email, u.phone
		FROM spaces s
		JOIN users u ON u.id = s.owner_id
		WHERE s.id = $1
	`

	var detail entity.SpaceDetail
	dest := append(spaceFields(&detail.Space),
		&detail.Owner.ID,
		&detail.Owner.FirstName,
		&detail.Owner.LastName,
		&detail.Owner.Email,
		&detail.Owner.Phone,
	)

	err := r.db.QueryRow(ctx, query, id).Scan(dest...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find space detail",
			zap.Error(err),
			zap.String("space_id", id.String()),
		)
		return nil, fmt.Errorf("find space detail %s: %w", id.String(), err)
	}

	return &detail, nil
}

// activeFilter builds the WHERE clause shared by FindActive and CountActive.
func activeFilter(filter entity.SpaceFilter) (string, []any) {
	conditions := []string{"s.status = 'active'"}
	var args []any

	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		conditions = append(conditions, fmt.Sprintf("s.city ILIKE $%d", len(args)))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		conditions = append(conditions, fmt.Sprintf("s.state = $%d", len(args)))
	}
	if filter.SpaceType != "" {
		args = append(args, filter.SpaceType)
		conditions = append(conditions, fmt.Sprintf("s.space_type = $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *spaceRepository) FindActive(ctx context.Context, filter entity.SpaceFilter, limit, offset int) ([]*entity.Space, error) {
	where, args := activeFilter(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM spaces s
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d
	`, spaceColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list spaces",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []*entity.Space
	for rows.Next() {
		var space entity.Space
		if err := rows.Scan(spaceFields(&space)...); err != nil {
			r.log.Error("Failed to scan space row", zap.Error(err))
			return nil, fmt.Errorf("scan space row: %w", err)
		}
		spaces = append(spaces, &space)
	}

	return spaces, rows.Err()
}

func (r *spaceRepository) CountActive(ctx context.Context, filter entity.SpaceFilter) (int64, error) {
	where, args := activeFilter(filter)
	query := `SELECT COUNT(*) FROM spaces s WHERE ` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count spaces", zap.Error(err))
		return 0, fmt.Errorf("count spaces: %w", err)
	}

	return count, nil
}

func (r *spaceRepository) Update(ctx context.Context, space *entity.Space) error {
	query := `
		UPDATE spaces
		SET title = $2, description = $3, address = $4, city = $5, state = $6, zip_code = $7,
		    latitude = $8, longitude = $9, space_type = $10, size_sqft = $11,
		    price_per_day_cents = $12, price_per_week_cents = $13, price_per_month_cents = $14,
		    instant_book = $15, status = $16, allowed_usage_types = $17, operating_hours = $18,
		    additional_terms = $19, updated_at = $20
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		space.ID,
		space.Title,
		space.Description,
		space.Address,
		space.City,
		space.State,
		space.ZipCode,
		space.Latitude,
		space.Longitude,
		space.SpaceType,
		space.SizeSqft,
		space.PricePerDayCents,
		space.PricePerWeekCents,
		space.PricePerMonthCents,
		space.InstantBook,
		space.Status,
		usageTypes(space.AllowedUsageTypes),
		space.OperatingHours,
		space.AdditionalTerms,
		space.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update space",
			zap.Error(err),
			zap.String("space_id", space.ID.String()),
		)
		return fmt.Errorf("update space %s: %w", space.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("space %s not found", space.ID.String())
	}

	return nil
}

func (r *spaceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SpaceStatus) error {
	query := `UPDATE spaces SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update space status",
			zap.Error(err),
			zap.String("space_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update space %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("space %s not found", id.String())
	}

	return nil
}
