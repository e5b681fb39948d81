// AngelaMos | 2026
// service.go

package listing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/servicesync/backend/internal/core"
	"github.com/servicesync/backend/internal/user"
)

// NameResolver looks up a user's current display name. Reviews snapshot
// the name at post time instead of joining against the users table.
type NameResolver interface {
	ResolveName(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo  Repository
	names NameResolver
}

func NewService(repo Repository, names NameResolver) *Service {
	return &Service{repo: repo, names: names}
}

func (s *Service) Create(
	ctx context.Context,
	callerID, callerRole string,
	req CreateListingRequest,
) (*Listing, error) {
	if !CanCreate(callerRole) {
		return nil, fmt.Errorf("create listing: %w", core.ErrForbidden)
	}

	l := &Listing{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Contact:     req.Contact,
		Address:     req.Location.Address,
		Lat:         req.Location.Lat,
		Lng:         req.Location.Lng,
		Verified:    false,
		OwnerID:     callerID,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	l.Items = []Item{}
	l.Reviews = []Review{}

	return l, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Listing, int, error) {
	if params.Category == "all" || params.Category == "All" {
		params.Category = ""
	}

	return s.repo.List(ctx, params)
}

func (s *Service) ListMine(
	ctx context.Context,
	callerID string,
) ([]Listing, error) {
	return s.repo.ListByOwner(ctx, callerID)
}

// Update checks existence before authorization so a missing listing reads
// as 404 to everyone, including callers who could never have touched it.
func (s *Service) Update(
	ctx context.Context,
	id, callerID, callerRole string,
	req UpdateListingRequest,
) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(callerRole, l.OwnerID, callerID) {
		return nil, fmt.Errorf("update listing: %w", core.ErrForbidden)
	}

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Category != nil {
		l.Category = *req.Category
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Contact != nil {
		l.Contact = *req.Contact
	}
	if req.Location != nil {
		l.Address = req.Location.Address
		l.Lat = req.Location.Lat
		l.Lng = req.Location.Lng
	}
	// The verified badge is a trust signal, so only developers may flip it.
	if req.Verified != nil && callerRole == user.RoleDeveloper {
		l.Verified = *req.Verified
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) Delete(
	ctx context.Context,
	id, callerID, callerRole string,
) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanDelete(callerRole, l.OwnerID, callerID) {
		return fmt.Errorf("delete listing: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, l.ID)
}

func (s *Service) AddItem(
	ctx context.Context,
	listingID, callerID, callerRole string,
	req AddItemRequest,
) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if !CanMutate(callerRole, l.OwnerID, callerID) {
		return nil, fmt.Errorf("add item: %w", core.ErrForbidden)
	}

	item := &Item{
		ID:        uuid.New().String(),
		ListingID: l.ID,
		Name:      req.Name,
		Price:     req.Price,
	}

	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	// Clients replace their copy of the listing with the response, so
	// reload it with the new item folded in.
	return s.repo.GetByID(ctx, l.ID)
}

// AddReview is open to any authenticated caller, owners included.
func (s *Service) AddReview(
	ctx context.Context,
	listingID, callerID string,
	req AddReviewRequest,
) ([]Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, core.BadRequestError("rating must be between 1 and 5")
	}

	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	name, err := s.names.ResolveName(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("resolve reviewer name: %w", err)
	}

	review := &Review{
		ID:           uuid.New().String(),
		ListingID:    l.ID,
		ReviewerID:   callerID,
		ReviewerName: name,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	if err := s.repo.AddReview(ctx, review); err != nil {
		return nil, err
	}

	// Respond with the full review list so clients can rerender it
	// without a second fetch.
	updated, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if updated.Reviews == nil {
		updated.Reviews = []Review{}
	}

	return updated.Reviews, nil
}

func (s *Service) CountAll(ctx context.Context) (int, error) {
	return s.repo.CountAll(ctx)
}
