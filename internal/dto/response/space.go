package response

import (
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/utils"
)

type SpaceResponse struct {
	ID                string             `json:"id"`
	OwnerID           string             `json:"owner_id"`
	Title             string             `json:"title"`
	Description       *string            `json:"description,omitempty"`
	Address           string             `json:"address"`
	City              string             `json:"city"`
	State             string             `json:"state"`
	ZipCode           string             `json:"zip_code"`
	Latitude          *float64           `json:"latitude,omitempty"`
	Longitude         *float64           `json:"longitude,omitempty"`
	SpaceType         entity.SpaceType   `json:"space_type"`
	SizeSqft          *int               `json:"size_sqft,omitempty"`
	PricePerDay       *float64           `json:"price_per_day,omitempty"`
	PricePerWeek      *float64           `json:"price_per_week,omitempty"`
	PricePerMonth     *float64           `json:"price_per_month,omitempty"`
	InstantBook       bool               `json:"instant_book"`
	Status            entity.SpaceStatus `json:"status"`
	AllowedUsageTypes []string           `json:"allowed_usage_types"`
	OperatingHours    *string            `json:"operating_hours,omitempty"`
	AdditionalTerms   *string            `json:"additional_terms,omitempty"`
	Owner             *PartyResponse     `json:"owner,omitempty"`
	Amenities         *AmenitiesResponse `json:"amenities"`
	Images            []ImageResponse    `json:"images"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type AmenitiesResponse struct {
	Electricity    bool `json:"electricity"`
	WaterAccess    bool `json:"water_access"`
	Restrooms      bool `json:"restrooms"`
	Parking        bool `json:"parking"`
	Wifi           bool `json:"wifi"`
	Storage        bool `json:"storage"`
	SecurityCamera bool `json:"security_camera"`
	Covered        bool `json:"covered"`
	HighTraffic    bool `json:"high_traffic"`
	GarbageAccess  bool `json:"garbage_access"`
	WaterDump      bool `json:"water_dump"`
}

type ImageResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

type SpaceSummaryResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Address   string           `json:"address"`
	City      string           `json:"city"`
	State     string           `json:"state"`
	SpaceType entity.SpaceType `json:"space_type"`
}

func dollars(cents *int64) *float64 {
	if cents == nil {
		return nil
	}
	v := utils.FromCents(*cents)
	return &v
}

func SpaceToResponse(space *entity.Space) SpaceResponse {
	usage := space.AllowedUsageTypes
	if usage == nil {
		usage = []string{}
	}

	return SpaceResponse{
		ID:                space.ID.String(),
		OwnerID:           space.OwnerID.String(),
		Title:             space.Title,
		Description:       space.Description,
		Address:           space.Address,
		City:              space.City,
		State:             space.State,
		ZipCode:           space.ZipCode,
		Latitude:          space.Latitude,
		Longitude:         space.Longitude,
		SpaceType:         space.SpaceType,
		SizeSqft:          space.SizeSqft,
		PricePerDay:       dollars(space.PricePerDayCents),
		PricePerWeek:      dollars(space.PricePerWeekCents),
		PricePerMonth:     dollars(space.PricePerMonthCents),
		InstantBook:       space.InstantBook,
		Status:            space.Status,
		AllowedUsageTypes: usage,
		OperatingHours:    space.OperatingHours,
		AdditionalTerms:   space.AdditionalTerms,
		Images:            []ImageResponse{},
		CreatedAt:         space.CreatedAt,
		UpdatedAt:         space.UpdatedAt,
	}
}

func SpaceDetailToResponse(detail *entity.SpaceDetail) SpaceResponse {
	resp := SpaceToResponse(&detail.Space)
	resp.Owner = PartyToResponse(detail.Owner)
	return resp
}

// WithMedia attaches the amenities and images loaded alongside the space.
func (r SpaceResponse) WithMedia(amenities *entity.SpaceAmenities, images []*entity.SpaceImage) SpaceResponse {
	if amenities != nil {
		r.Amenities = &AmenitiesResponse{
			Electricity:    amenities.Electricity,
			WaterAccess:    amenities.WaterAccess,
			Restrooms:      amenities.Restrooms,
			Parking:        amenities.Parking,
			Wifi:           amenities.Wifi,
			Storage:        amenities.Storage,
			SecurityCamera: amenities.SecurityCamera,
			Covered:        amenities.Covered,
			HighTraffic:    amenities.HighTraffic,
			GarbageAccess:  amenities.GarbageAccess,
			WaterDump:      amenities.WaterDump,
		}
	}

	r.Images = make([]ImageResponse, len(images))
	for i, img := range images {
		r.Images[i] = ImageResponse{
			ID:           img.ID.String(),
			URL:          img.ImageURL,
			IsPrimary:    img.IsPrimary,
			DisplayOrder: img.DisplayOrder,
		}
	}
	return r
}
