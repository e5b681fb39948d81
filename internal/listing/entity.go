// AngelaMos | 2026
// entity.go

package listing

import (
	"time"
)

// Listing is a published service offering. OwnerID is set at creation and
// never changes afterwards; updates write around it.
type Listing struct {
	ID          string    `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Category    string    `db:"category"    json:"category"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price"       json:"price"`
	Contact     string    `db:"contact"     json:"contact"`
	Address     string    `db:"address"     json:"-"`
	Lat         float64   `db:"lat"         json:"-"`
	Lng         float64   `db:"lng"         json:"-"`
	Verified    bool      `db:"verified"    json:"verified"`
	OwnerID     string    `db:"owner_id"    json:"owner_id"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`

	Items   []Item   `db:"-" json:"items"`
	Reviews []Review `db:"-" json:"reviews"`
}

type Location struct {
	Address string  `json:"address" validate:"required,max=255"`
	Lat     float64 `json:"lat"     validate:"min=-90,max=90"`
	Lng     float64 `json:"lng"     validate:"min=-180,max=180"`
}

func (l *Listing) Location() Location {
	return Location{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

// Item is a priced line on a listing's menu. Position preserves the
// order items were added in.
type Item struct {
	ID        string    `db:"id"         json:"id"`
	ListingID string    `db:"listing_id" json:"-"`
	Name      string    `db:"name"       json:"name"`
	Price     float64   `db:"price"      json:"price"`
	Position  int       `db:"position"   json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Review captures the reviewer's display name at post time; it does not
// follow later profile renames.
type Review struct {
	ID           string    `db:"id"            json:"id"`
	ListingID    string    `db:"listing_id"    json:"-"`
	ReviewerID   string    `db:"reviewer_id"   json:"-"`
	ReviewerName string    `db:"reviewer_name" json:"reviewer_name"`
	Rating       int       `db:"rating"        json:"rating"`
	Comment      string    `db:"comment"       json:"comment"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
