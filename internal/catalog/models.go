package catalog

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Images      []string  `json:"images,omitempty"`
	MRPPrice    float64   `json:"mrpPrice"`
	PrimePrice  float64   `json:"primePrice"`
	Category    string    `json:"category"` // canonical id, name, or a legacy alias
	Featured    bool      `json:"featured"`
	IsNew       bool      `json:"isNew,omitempty"`
	InStock     bool      `json:"inStock"`
	Rating      float64   `json:"rating,omitempty"` // 0-5, 0 when unrated
	ReviewCount int       `json:"reviewCount,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// UnitPrice is what an order charges: prime price, or MRP when no prime price is set.
func (p Product) UnitPrice() float64 {
	if p.PrimePrice > 0 {
		return p.PrimePrice
	}
	return p.MRPPrice
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ProductCount int    `json:"productCount"` // informational only
	Icon         string `json:"icon,omitempty"`
	ColorScheme  string `json:"colorScheme,omitempty"`
}

// ProductInput is the admin payload for creating or replacing a product.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Slug        string   `json:"slug" validate:"omitempty,max=255"`
	Subtitle    string   `json:"subtitle" validate:"max=255"`
	Description string   `json:"description"`
	Image       string   `json:"image" validate:"required"`
	Images      []string `json:"images"`
	MRPPrice    float64  `json:"mrpPrice" validate:"gte=0"`
	PrimePrice  float64  `json:"primePrice" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Featured    bool     `json:"featured"`
	IsNew       bool     `json:"isNew"`
	InStock     bool     `json:"inStock"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"reviewCount" validate:"gte=0"`
}

// Product builds a product from the input, deriving the slug from the name when none is given.
func (in ProductInput) Product(id string) Product {
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}
	return Product{
		ID:          id,
		Name:        in.Name,
		Slug:        slug,
		Subtitle:    in.Subtitle,
		Description: in.Description,
		Image:       in.Image,
		Images:      in.Images,
		MRPPrice:    in.MRPPrice,
		PrimePrice:  in.PrimePrice,
		Category:    in.Category,
		Featured:    in.Featured,
		IsNew:       in.IsNew,
		InStock:     in.InStock,
		Rating:      in.Rating,
		ReviewCount: in.ReviewCount,
	}
}

type CategoryInput struct {
	ID          string `json:"id" validate:"omitempty,max=128"`
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	ColorScheme string `json:"colorScheme" validate:"max=64"`
}

func (in CategoryInput) Category(id string) Category {
	return Category{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		ColorScheme: in.ColorScheme,
	}
}
