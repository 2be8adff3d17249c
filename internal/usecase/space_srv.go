package usecase

import (
	"context"
	"errors"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/dto/response"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/utils"
	"golocal-spaces/pkg/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SpaceService interface {
	CreateSpace(ctx context.Context, ownerID uuid.UUID, req *request.CreateSpaceRequest) (*response.SpaceResponse, error)
	GetSpace(ctx context.Context, spaceID string) (*response.SpaceResponse, error)
	ListSpaces(ctx context.Context, req *request.ListSpacesRequest) (*response.PaginatedResponse[response.SpaceResponse], error)
	UpdateSpace(ctx context.Context, ownerID uuid.UUID, spaceID string, req *request.UpdateSpaceRequest) (*response.SpaceResponse, error)
	DeactivateSpace(ctx context.Context, ownerID uuid.UUID, spaceID string) error
}

type spaceService struct {
	repo  *repository.Repository
	tasks TaskSubmitter
	log   *zap.Logger
}

func NewSpaceService(repo *repository.Repository, tasks TaskSubmitter, log *zap.Logger) SpaceService {
	return &spaceService{
		repo:  repo,
		tasks: tasks,
		log:   log.With(zap.String("service", "space")),
	}
}

func (s *spaceService) CreateSpace(ctx context.Context, ownerID uuid.UUID, req *request.CreateSpaceRequest) (*response.SpaceResponse, error) {
	if err := s.validate(req, req); err != nil {
		return nil, err
	}

	owner, err := s.repo.User.FindByID(ctx, ownerID)
	if err != nil {
		s.log.Error("Failed to find owner", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, apperror.Persistence("failed to find owner", err)
	}
	if owner == nil {
		return nil, apperror.NotFound("user not found")
	}
	if !owner.UserType.CanHost() {
		return nil, apperror.Forbidden("only landlords can list spaces")
	}

	now := time.Now()
	space := &entity.Space{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID: ownerID,
		Status:  entity.SpaceStatusActive,
	}
	applySpaceFields(space, req)

	if err := s.repo.Space.Create(ctx, space); err != nil {
		s.log.Error("Failed to create space", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, apperror.Persistence("failed to create space", err)
	}

	s.log.Info("Space created",
		zap.String("space_id", space.ID.String()),
		zap.String("owner_id", ownerID.String()))

	amenities, images := newSpaceMedia(space.ID, req, now)
	s.saveMedia(space.ID, amenities, images)

	resp := response.SpaceToResponse(space).WithMedia(amenities, images)
	return &resp, nil
}

func (s *spaceService) GetSpace(ctx context.Context, spaceID string) (*response.SpaceResponse, error) {
	id, err := uuid.Parse(spaceID)
	if err != nil {
		return nil, apperror.Validation("invalid space ID")
	}

	detail, err := s.repo.Space.FindDetailByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get space", zap.Error(err), zap.String("space_id", spaceID))
		return nil, apperror.Persistence("failed to get space", err)
	}
	if detail == nil {
		return nil, apperror.NotFound("space not found")
	}

	amenities, err := s.repo.Amenity.FindBySpaceID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get space amenities", zap.Error(err), zap.String("space_id", spaceID))
		return nil, apperror.Persistence("failed to get space", err)
	}
	images, err := s.repo.Image.FindBySpaceID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get space images", zap.Error(err), zap.String("space_id", spaceID))
		return nil, apperror.Persistence("failed to get space", err)
	}

	resp := response.SpaceDetailToResponse(detail).WithMedia(amenities, images)
	return &resp, nil
}

func (s *spaceService) ListSpaces(ctx context.Context, req *request.ListSpacesRequest) (*response.PaginatedResponse[response.SpaceResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.ValidationFields("validation failed", errs)
	}

	filter := entity.SpaceFilter{
		City:      req.City,
		State:     req.State,
		SpaceType: req.SpaceType,
	}

	spaces, err := s.repo.Space.FindActive(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list spaces", zap.Error(err))
		return nil, apperror.Persistence("failed to list spaces", err)
	}

	total, err := s.repo.Space.CountActive(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count spaces", zap.Error(err))
		return nil, apperror.Persistence("failed to count spaces", err)
	}

	ids := make([]uuid.UUID, len(spaces))
	for i, space := range spaces {
		ids[i] = space.ID
	}
	amenities, err := s.repo.Amenity.FindBySpaceIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to list space amenities", zap.Error(err))
		return nil, apperror.Persistence("failed to list spaces", err)
	}
	images, err := s.repo.Image.FindBySpaceIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to list space images", zap.Error(err))
		return nil, apperror.Persistence("failed to list spaces", err)
	}

	data := make([]response.SpaceResponse, len(spaces))
	for i, space := range spaces {
		data[i] = response.SpaceToResponse(space).WithMedia(amenities[space.ID], images[space.ID])
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *spaceService) UpdateSpace(ctx context.Context, ownerID uuid.UUID, spaceID string, req *request.UpdateSpaceRequest) (*response.SpaceResponse, error) {
	if err := s.validate(req, &req.CreateSpaceRequest); err != nil {
		return nil, err
	}

	space, err := s.ownedSpace(ctx, ownerID, spaceID)
	if err != nil {
		return nil, err
	}

	applySpaceFields(space, &req.CreateSpaceRequest)
	if req.Status != "" {
		space.Status = entity.SpaceStatus(req.Status)
	}
	space.UpdatedAt = time.Now()

	if err := s.repo.Space.Update(ctx, space); err != nil {
		s.log.Error("Failed to update space", zap.Error(err), zap.String("space_id", spaceID))
		return nil, apperror.Persistence("failed to update space", err)
	}

	s.log.Info("Space updated", zap.String("space_id", spaceID))

	// media is only replaced when the request carries it
	amenities, images := newSpaceMedia(space.ID, &req.CreateSpaceRequest, space.UpdatedAt)
	s.saveMedia(space.ID, amenities, images)

	if amenities == nil {
		if amenities, err = s.repo.Amenity.FindBySpaceID(ctx, space.ID); err != nil {
			s.log.Warn("Failed to load space amenities", zap.Error(err), zap.String("space_id", spaceID))
		}
	}
	if images == nil {
		if images, err = s.repo.Image.FindBySpaceID(ctx, space.ID); err != nil {
			s.log.Warn("Failed to load space images", zap.Error(err), zap.String("space_id", spaceID))
		}
	}

	resp := response.SpaceToResponse(space).WithMedia(amenities, images)
	return &resp, nil
}

// DeactivateSpace hides the space from listings. Existing bookings are untouched.
func (s *spaceService) DeactivateSpace(ctx context.Context, ownerID uuid.UUID, spaceID string) error {
	space, err := s.ownedSpace(ctx, ownerID, spaceID)
	if err != nil {
		return err
	}

	if err := s.repo.Space.UpdateStatus(ctx, space.ID, entity.SpaceStatusInactive); err != nil {
		s.log.Error("Failed to deactivate space", zap.Error(err), zap.String("space_id", spaceID))
		return apperror.Persistence("failed to deactivate space", err)
	}

	s.log.Info("Space deactivated", zap.String("space_id", spaceID))
	return nil
}

func (s *spaceService) validate(data any, req *request.CreateSpaceRequest) error {
	if errs := utils.ValidateStruct(data); len(errs) > 0 {
		s.log.Warn("Space validation failed", zap.Any("errors", errs))
		return apperror.ValidationFields("validation failed", errs)
	}
	// bookings are priced from the daily or monthly rate only
	if req.PricePerDay == nil && req.PricePerMonth == nil {
		return apperror.ValidationFields("validation failed", map[string]string{
			"price_per_day": "price_per_day or price_per_month is required",
		})
	}
	return nil
}

// saveMedia writes amenities and images in the background. The space row is
// already committed, so a failure here is logged and reported to the task
// failure hook without failing the request.
func (s *spaceService) saveMedia(spaceID uuid.UUID, amenities *entity.SpaceAmenities, images []*entity.SpaceImage) {
	if amenities == nil && images == nil {
		return
	}

	s.tasks.Submit(worker.Task{
		Name: "space:media",
		Run: func(ctx context.Context) error {
			var errs []error
			if amenities != nil {
				if err := s.repo.Amenity.Upsert(ctx, amenities); err != nil {
					s.log.Warn("Failed to save space amenities", zap.Error(err), zap.String("space_id", spaceID.String()))
					errs = append(errs, err)
				}
			}
			if images != nil {
				if err := s.repo.Image.ReplaceAll(ctx, spaceID, images); err != nil {
					s.log.Warn("Failed to save space images", zap.Error(err), zap.String("space_id", spaceID.String()))
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	})
}

// newSpaceMedia builds the rows for the request's amenities and images. A nil
// images slice means the request carried none.
func newSpaceMedia(spaceID uuid.UUID, req *request.CreateSpaceRequest, now time.Time) (*entity.SpaceAmenities, []*entity.SpaceImage) {
	var amenities *entity.SpaceAmenities
	if a := req.Amenities; a != nil {
		amenities = &entity.SpaceAmenities{
			BaseSimple:     entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			SpaceID:        spaceID,
			Electricity:    a.Electricity,
			WaterAccess:    a.WaterAccess,
			Restrooms:      a.Restrooms,
			Parking:        a.Parking,
			Wifi:           a.Wifi,
			Storage:        a.Storage,
			SecurityCamera: a.SecurityCamera,
			Covered:        a.Covered,
			HighTraffic:    a.HighTraffic,
			GarbageAccess:  a.GarbageAccess,
			WaterDump:      a.WaterDump,
		}
	}

	if req.Images == nil {
		return amenities, nil
	}
	images := make([]*entity.SpaceImage, len(req.Images))
	for i, img := range req.Images {
		images[i] = &entity.SpaceImage{
			BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			SpaceID:      spaceID,
			ImageURL:     img.URL,
			IsPrimary:    i == 0,
			DisplayOrder: i,
		}
	}
	return amenities, images
}

func (s *spaceService) ownedSpace(ctx context.Context, ownerID uuid.UUID, spaceID string) (*entity.Space, error) {
	id, err := uuid.Parse(spaceID)
	if err != nil {
		return nil, apperror.Validation("invalid space ID")
	}

	space, err := s.repo.Space.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get space", zap.Error(err), zap.String("space_id", spaceID))
		return nil, apperror.Persistence("failed to get space", err)
	}
	if space == nil {
		return nil, apperror.NotFound("space not found")
	}
	if space.OwnerID != ownerID {
		s.log.Warn("Space owner mismatch",
			zap.String("space_id", spaceID),
			zap.String("user_id", ownerID.String()))
		return nil, apperror.Forbidden("only the owner can modify this space")
	}

	return space, nil
}

func applySpaceFields(space *entity.Space, req *request.CreateSpaceRequest) {
	space.Title = req.Title
	space.Description = req.Description
	space.Address = req.Address
	space.City = req.City
	space.State = req.State
	space.ZipCode = req.ZipCode
	space.Latitude = req.Latitude
	space.Longitude = req.Longitude
	space.SpaceType = entity.SpaceType(req.SpaceType)
	space.SizeSqft = req.SizeSqft
	space.PricePerDayCents = cents(req.PricePerDay)
	space.PricePerWeekCents = cents(req.PricePerWeek)
	space.PricePerMonthCents = cents(req.PricePerMonth)
	space.InstantBook = req.InstantBook
	space.AllowedUsageTypes = req.AllowedUsageTypes
	space.OperatingHours = req.OperatingHours
	space.AdditionalTerms = req.AdditionalTerms
}

func cents(amount *float64) *int64 {
	if amount == nil {
		return nil
	}
	v := utils.ToCents(*amount)
	return &v
}
