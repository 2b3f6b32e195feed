package model

// Apartment is a rentable unit.
type Apartment struct {
	Base
	Name        string  `json:"name" gorm:"size:100;not null"`
	FloorNumber int     `json:"floorNumber" gorm:"not null;index"`
	UnitNumber  string  `json:"unitNumber" gorm:"size:20;not null"`
	Area        float64 `json:"area" gorm:"not null"`
	Bedrooms    int     `json:"bedrooms" gorm:"not null"`
	Bathrooms   int     `json:"bathrooms" gorm:"not null"`
	Rent        float64 `json:"rent" gorm:"type:decimal(10,2);not null"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string  `json:"imageUrl,omitempty" gorm:"size:255"`
	IsAvailable bool    `json:"isAvailable" gorm:"not null;index"`
}

// NewApartment returns an available apartment.
func NewApartment(name string, floor int, unit string, area float64, bedrooms, bathrooms int, rent float64) *Apartment {
	return &Apartment{
		Name:        name,
		FloorNumber: floor,
		UnitNumber:  unit,
		Area:        area,
		Bedrooms:    bedrooms,
		Bathrooms:   bathrooms,
		Rent:        rent,
		IsAvailable: true,
	}
}

func (a *Apartment) Validate() error {
	return firstError(
		required("name", a.Name, 100),
		required("unitNumber", a.UnitNumber, 20),
		nonNegative("area", a.Area),
		nonNegative("bedrooms", a.Bedrooms),
		nonNegative("bathrooms", a.Bathrooms),
		nonNegative("rent", a.Rent),
		maxLen("imageUrl", a.ImageURL, 255),
	)
}
