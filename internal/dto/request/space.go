package request

// Rates are in dollars. A daily or monthly rate is required; the weekly rate is display only.
type CreateSpaceRequest struct {
	Title             string   `json:"title" validate:"required,max=200"`
	Description       *string  `json:"description,omitempty"`
	Address           string   `json:"address" validate:"required,max=255"`
	City              string   `json:"city" validate:"required,max=100"`
	State             string   `json:"state" validate:"required,max=50"`
	ZipCode           string   `json:"zip_code" validate:"required,max=20"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	SpaceType         string   `json:"space_type" validate:"required,oneof=parking_lot storefront vacant_land warehouse other"`
	SizeSqft          *int     `json:"size_sqft,omitempty" validate:"omitempty,gt=0"`
	PricePerDay       *float64 `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	PricePerWeek      *float64 `json:"price_per_week,omitempty" validate:"omitempty,gt=0"`
	PricePerMonth     *float64 `json:"price_per_month,omitempty" validate:"omitempty,gt=0"`
	InstantBook       bool     `json:"instant_book"`
	AllowedUsageTypes []string `json:"allowed_usage_types,omitempty" validate:"omitempty,dive,oneof=food_truck drive_thru retail stand pop_up event other"`
	OperatingHours    *string  `json:"operating_hours,omitempty" validate:"omitempty,max=100"`
	AdditionalTerms   *string  `json:"additional_terms,omitempty"`

	Amenities *AmenitiesRequest `json:"amenities,omitempty"`
	Images    []ImageRequest    `json:"images,omitempty" validate:"omitempty,max=20,dive"`
}

type AmenitiesRequest struct {
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

// Images are stored in request order; the first one is primary.
type ImageRequest struct {
	URL string `json:"url" validate:"required,url,max=2048"`
}

type UpdateSpaceRequest struct {
	CreateSpaceRequest
	Status string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type ListSpacesRequest struct {
	PaginatedRequest
	City      string `json:"city"`
	State     string `json:"state"`
	SpaceType string `json:"space_type" validate:"omitempty,oneof=parking_lot storefront vacant_land warehouse other"`
}
