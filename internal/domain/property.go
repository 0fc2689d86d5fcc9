package domain

// Property mirrors a properties row. CostPerNight is stored in cents.
// AverageRating is only populated by queries that join property_reviews,
// and stays nil for a property nobody has reviewed yet.
type Property struct {
	ID                int64    `json:"id"`
	OwnerID           int64    `json:"owner_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ThumbnailPhotoURL string   `json:"thumbnail_photo_url"`
	CoverPhotoURL     string   `json:"cover_photo_url"`
	CostPerNight      int64    `json:"cost_per_night"`
	ParkingSpaces     int      `json:"parking_spaces"`
	NumberOfBathrooms int      `json:"number_of_bathrooms"`
	NumberOfBedrooms  int      `json:"number_of_bedrooms"`
	Country           string   `json:"country"`
	Street            string   `json:"street"`
	City              string   `json:"city"`
	Province          string   `json:"province"`
	PostCode          string   `json:"post_code"`
	Active            bool     `json:"active"`
	AverageRating     *float64 `json:"average_rating,omitempty"`
}

type NewProperty struct {
	OwnerID           int64  `json:"owner_id" validate:"required,gt=0"`
	Title             string `json:"title" validate:"required,max=255"`
	Description       string `json:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url" validate:"omitempty,url,max=255"`
	CoverPhotoURL     string `json:"cover_photo_url" validate:"omitempty,url,max=255"`
	CostPerNight      int64  `json:"cost_per_night" validate:"gt=0"`
	ParkingSpaces     int    `json:"parking_spaces" validate:"gte=0"`
	NumberOfBathrooms int    `json:"number_of_bathrooms" validate:"gte=0"`
	NumberOfBedrooms  int    `json:"number_of_bedrooms" validate:"gte=0"`
	Country           string `json:"country" validate:"required,max=255"`
	Street            string `json:"street" validate:"required,max=255"`
	City              string `json:"city" validate:"required,max=255"`
	Province          string `json:"province" validate:"required,max=255"`
	PostCode          string `json:"post_code" validate:"required,max=255"`
}

// PropertyFilter narrows GetAllProperties. Nil fields are not applied.
// Prices are in cents and both bounds are inclusive.
type PropertyFilter struct {
	City             *string
	OwnerID          *int64
	MinPricePerNight *int64
	MaxPricePerNight *int64
	MinimumRating    *float64
	Limit            int
	Offset           int
}
