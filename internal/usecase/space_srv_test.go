package usecase

import (
	"context"
	"errors"
	"testing"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/dto/request"
	"golocal-spaces/pkg/apperror"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spaceRequest() *request.CreateSpaceRequest {
	daily := 150.0
	return &request.CreateSpaceRequest{
		Title:             gofakeit.Company() + " Parking",
		Address:           gofakeit.Street(),
		City:              "Austin",
		State:             "TX",
		ZipCode:           gofakeit.Zip(),
		SpaceType:         "parking_lot",
		PricePerDay:       &daily,
		AllowedUsageTypes: []string{"food_truck", "pop_up"},
	}
}

func TestSpaceService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)

	created, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, spaceRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.SpaceStatusActive, created.Status)
	require.NotNil(t, created.PricePerDay)
	assert.Equal(t, 150.0, *created.PricePerDay)
	assert.Nil(t, created.PricePerMonth)

	stored := env.store.spaces[uuid.MustParse(created.ID)]
	assert.Equal(t, int64(15000), *stored.PricePerDayCents)

	got, err := env.svc.Space.GetSpace(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, landlord.Email, got.Owner.Email)
}

func TestSpaceService_CreateRequiresRate(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)
	req := spaceRequest()
	req.PricePerDay = nil

	_, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, req)

	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSpaceService_CreateStoresAmenitiesAndImages(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)

	req := spaceRequest()
	req.Amenities = &request.AmenitiesRequest{Electricity: true, Wifi: true, Covered: true}
	req.Images = []request.ImageRequest{
		{URL: "https://img.example.com/front.jpg"},
		{URL: "https://img.example.com/side.jpg"},
	}

	created, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, req)
	require.NoError(t, err)
	require.NotNil(t, created.Amenities)
	assert.True(t, created.Amenities.Electricity)
	require.Len(t, created.Images, 2)

	got, err := env.svc.Space.GetSpace(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Amenities)
	assert.True(t, got.Amenities.Wifi)
	assert.True(t, got.Amenities.Covered)
	assert.False(t, got.Amenities.Restrooms)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://img.example.com/front.jpg", got.Images[0].URL)
	assert.True(t, got.Images[0].IsPrimary)
	assert.Equal(t, 1, got.Images[1].DisplayOrder)
	assert.False(t, got.Images[1].IsPrimary)

	list, err := env.svc.Space.ListSpaces(context.Background(), &request.ListSpacesRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Data[0].Amenities)
	assert.Len(t, list.Data[0].Images, 2)
}

func TestSpaceService_MediaFailureDoesNotFailCreate(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)
	env.store.imageSaveErr = errors.New("disk full")

	req := spaceRequest()
	req.Images = []request.ImageRequest{{URL: "https://img.example.com/front.jpg"}}

	created, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, req)
	require.NoError(t, err)
	assert.Contains(t, env.store.spaces, uuid.MustParse(created.ID))
	assert.Len(t, env.tasks.failures, 1)

	got, err := env.svc.Space.GetSpace(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Amenities)
	assert.Empty(t, got.Images)
}

func TestSpaceService_RejectsInvalidImageURL(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)

	req := spaceRequest()
	req.Images = []request.ImageRequest{{URL: "not a url"}}

	_, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, req)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Empty(t, env.store.spaces)
}

func TestSpaceService_UpdateKeepsMediaUnlessReplaced(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)

	req := spaceRequest()
	req.Amenities = &request.AmenitiesRequest{Parking: true}
	req.Images = []request.ImageRequest{{URL: "https://img.example.com/front.jpg"}}
	created, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, req)
	require.NoError(t, err)

	update := &request.UpdateSpaceRequest{CreateSpaceRequest: *spaceRequest()}
	resp, err := env.svc.Space.UpdateSpace(context.Background(), landlord.ID, created.ID, update)
	require.NoError(t, err)
	require.NotNil(t, resp.Amenities)
	assert.True(t, resp.Amenities.Parking)
	assert.Len(t, resp.Images, 1)

	update.Images = []request.ImageRequest{
		{URL: "https://img.example.com/a.jpg"},
		{URL: "https://img.example.com/b.jpg"},
	}
	resp, err = env.svc.Space.UpdateSpace(context.Background(), landlord.ID, created.ID, update)
	require.NoError(t, err)
	require.Len(t, resp.Images, 2)

	got, err := env.svc.Space.GetSpace(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://img.example.com/a.jpg", got.Images[0].URL)
	require.NotNil(t, got.Amenities)
	assert.True(t, got.Amenities.Parking)
}

func TestSpaceService_WeeklyRateAloneIsNotBookable(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)
	weekly := 700.0

	req := spaceRequest()
	req.PricePerDay = nil
	req.PricePerWeek = &weekly

	_, err := env.svc.Space.CreateSpace(context.Background(), landlord.ID, req)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, appErr.Fields, "price_per_day")
	assert.Empty(t, env.store.spaces)

	space := env.addSpace(landlord.ID, centsPtr(15000), nil)
	update := &request.UpdateSpaceRequest{CreateSpaceRequest: *req}

	_, err = env.svc.Space.UpdateSpace(context.Background(), landlord.ID, space.ID.String(), update)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, int64(15000), *env.store.spaces[space.ID].PricePerDayCents)
}

func TestSpaceService_VendorCannotList(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addUser(entity.UserTypeVendor)

	_, err := env.svc.Space.CreateSpace(context.Background(), vendor.ID, spaceRequest())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSpaceService_UpdateOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)
	other := env.addUser(entity.UserTypeLandlord)
	space := env.addSpace(landlord.ID, centsPtr(15000), nil)

	update := &request.UpdateSpaceRequest{CreateSpaceRequest: *spaceRequest()}
	update.Title = "Renamed lot"

	_, err := env.svc.Space.UpdateSpace(context.Background(), other.ID, space.ID.String(), update)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := env.svc.Space.UpdateSpace(context.Background(), landlord.ID, space.ID.String(), update)
	require.NoError(t, err)
	assert.Equal(t, "Renamed lot", resp.Title)
}

func TestSpaceService_DeactivateHidesFromListing(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.addUser(entity.UserTypeLandlord)
	kept := env.addSpace(landlord.ID, centsPtr(15000), nil)
	hidden := env.addSpace(landlord.ID, centsPtr(15000), nil)

	require.NoError(t, env.svc.Space.DeactivateSpace(context.Background(), landlord.ID, hidden.ID.String()))

	list, err := env.svc.Space.ListSpaces(context.Background(), &request.ListSpacesRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, kept.ID.String(), list.Data[0].ID)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestSpaceService_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Space.GetSpace(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = env.svc.Space.GetSpace(context.Background(), "nope")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
