package entity

import "github.com/google/uuid"

type SpaceType string

const (
	SpaceTypeParkingLot SpaceType = "parking_lot"
	SpaceTypeStorefront SpaceType = "storefront"
	SpaceTypeVacantLand SpaceType = "vacant_land"
	SpaceTypeWarehouse  SpaceType = "warehouse"
	SpaceTypeOther      SpaceType = "other"
)

type SpaceStatus string

const (
	SpaceStatusActive              SpaceStatus = "active"
	SpaceStatusInactive            SpaceStatus = "inactive"
	SpaceStatusPendingVerification SpaceStatus = "pending_verification"
)

// Space rates are stored in cents; a nil rate is not offered.
type Space struct {
	Base
	OwnerID            uuid.UUID   `db:"owner_id"`
	Title              string      `db:"title"`
	Description        *string     `db:"description"`
	Address            string      `db:"address"`
	City               string      `db:"city"`
	State              string      `db:"state"`
	ZipCode            string      `db:"zip_code"`
	Latitude           *float64    `db:"latitude"`
	Longitude          *float64    `db:"longitude"`
	SpaceType          SpaceType   `db:"space_type"`
	SizeSqft           *int        `db:"size_sqft"`
	PricePerDayCents   *int64      `db:"price_per_day_cents"`
	PricePerWeekCents  *int64      `db:"price_per_week_cents"`
	PricePerMonthCents *int64      `db:"price_per_month_cents"`
	InstantBook        bool        `db:"instant_book"`
	Status             SpaceStatus `db:"status"`
	AllowedUsageTypes  []string    `db:"allowed_usage_types"`
	OperatingHours     *string     `db:"operating_hours"`
	AdditionalTerms    *string     `db:"additional_terms"`
}

// HasRate reports whether the space can be priced. The weekly rate is display only.
func (s *Space) HasRate() bool {
	return positive(s.PricePerDayCents) || positive(s.PricePerMonthCents)
}

func positive(v *int64) bool {
	return v != nil && *v > 0
}

type SpaceDetail struct {
	Space
	Owner PartySummary
}

type SpaceSummary struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Address   string    `db:"address"`
	City      string    `db:"city"`
	State     string    `db:"state"`
	SpaceType SpaceType `db:"space_type"`
}

type SpaceFilter struct {
	City      string
	State     string
	SpaceType string
}

// SpaceAmenities is the single amenities row of a space.
type SpaceAmenities struct {
	BaseSimple
	SpaceID        uuid.UUID `db:"space_id"`
	Electricity    bool      `db:"electricity"`
	WaterAccess    bool      `db:"water_access"`
	Restrooms      bool      `db:"restrooms"`
	Parking        bool      `db:"parking"`
	Wifi           bool      `db:"wifi"`
	Storage        bool      `db:"storage"`
	SecurityCamera bool      `db:"security_camera"`
	Covered        bool      `db:"covered"`
	HighTraffic    bool      `db:"high_traffic"`
	GarbageAccess  bool      `db:"garbage_access"`
	WaterDump      bool      `db:"water_dump"`
}

type SpaceImage struct {
	BaseSimple
	SpaceID      uuid.UUID `db:"space_id"`
	ImageURL     string    `db:"image_url"`
	IsPrimary    bool      `db:"is_primary"`
	DisplayOrder int       `db:"display_order"`
}
