package academy

import (
	"errors"
	"math"
	"time"
)

var ErrNotFound = errors.New("course not found")

type Course struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"imageUrl"`
	Duration        string    `json:"duration"`
	Modules         int       `json:"modules"`
	Certificate     bool      `json:"certificate"`
	Rating          float64   `json:"rating"`
	StudentCount    int       `json:"studentCount"`
	OriginalPrice   float64   `json:"originalPrice"`
	DiscountedPrice float64   `json:"discountedPrice"`
	CreatedAt       time.Time `json:"createdAt"`
}

type CourseInput struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     string  `json:"description" validate:"required"`
	ImageURL        string  `json:"imageUrl" validate:"required"`
	Duration        string  `json:"duration" validate:"required"`
	Modules         int     `json:"modules" validate:"gte=0"`
	Certificate     bool    `json:"certificate"`
	Rating          float64 `json:"rating" validate:"gte=0,lte=5"`
	StudentCount    int     `json:"studentCount" validate:"gte=0"`
	OriginalPrice   float64 `json:"originalPrice" validate:"gte=0"`
	DiscountedPrice float64 `json:"discountedPrice" validate:"gte=0"`
}

func (in CourseInput) Course(id string, now time.Time) Course {
	return Course{
		ID:              id,
		Title:           in.Title,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		Duration:        in.Duration,
		Modules:         in.Modules,
		Certificate:     in.Certificate,
		Rating:          in.Rating,
		StudentCount:    in.StudentCount,
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		CreatedAt:       now.UTC(),
	}
}

// DiscountPercent is the whole-number saving shown on the course card.
func (c Course) DiscountPercent() int {
	if c.OriginalPrice <= 0 || c.DiscountedPrice <= 0 || c.DiscountedPrice >= c.OriginalPrice {
		return 0
	}
	return int(math.Round((c.OriginalPrice - c.DiscountedPrice) / c.OriginalPrice * 100))
}
