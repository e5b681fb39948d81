// AngelaMos | 2026
// dto.go

package listing

import (
	"time"
)

type CreateListingRequest struct {
	Name        string   `json:"name"        validate:"required,min=1,max=200"`
	Category    string   `json:"category"    validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	Price       float64  `json:"price"       validate:"required,gt=0"`
	Contact     string   `json:"contact"     validate:"required,max=200"`
	Location    Location `json:"location"    validate:"required"`
}

type UpdateListingRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,min=1,max=200"`
	Category    *string   `json:"category"    validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Price       *float64  `json:"price"       validate:"omitempty,gt=0"`
	Contact     *string   `json:"contact"     validate:"omitempty,max=200"`
	Location    *Location `json:"location"    validate:"omitempty"`
	Verified    *bool     `json:"verified"`
}

type AddItemRequest struct {
	Name  string  `json:"name"  validate:"required,min=1,max=200"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ListParams struct {
	Category string
	Page     int
	PageSize int
}

type ListingResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Contact     string    `json:"contact"`
	Location    Location  `json:"location"`
	Verified    bool      `json:"verified"`
	OwnerID     string    `json:"owner_id"`
	Items       []Item    `json:"items"`
	Reviews     []Review  `json:"reviews"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToListingResponse(l *Listing) ListingResponse {
	items := l.Items
	if items == nil {
		items = []Item{}
	}
	reviews := l.Reviews
	if reviews == nil {
		reviews = []Review{}
	}

	return ListingResponse{
		ID:          l.ID,
		Name:        l.Name,
		Category:    l.Category,
		Description: l.Description,
		Price:       l.Price,
		Contact:     l.Contact,
		Location:    l.Location(),
		Verified:    l.Verified,
		OwnerID:     l.OwnerID,
		Items:       items,
		Reviews:     reviews,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func ToListingResponseList(listings []Listing) []ListingResponse {
	responses := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, ToListingResponse(&listings[i]))
	}
	return responses
}
