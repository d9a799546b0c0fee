package portal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
)

// Directory serves businesses and people. Anything other users see comes
// from the redacted public views.
type Directory struct {
	businesses repository.BusinessRepository
	profiles   repository.ProfileRepository
}

func NewDirectory(businesses repository.BusinessRepository, profiles repository.ProfileRepository) *Directory {
	return &Directory{businesses: businesses, profiles: profiles}
}

// Businesses filters by category ("All" or empty for any) and a free-text
// search over name and description.
func (d *Directory) Businesses(ctx context.Context, category, search string, includeAll bool) ([]models.PublicBusiness, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	return d.businesses.ListPublic(ctx, repository.BusinessFilter{
		Status:   listStatus(includeAll),
		Category: category,
		Search:   strings.TrimSpace(search),
	})
}

// Business returns the full row. contact reports whether the viewer may
// see the contact columns; callers serve Public() otherwise.
func (d *Directory) Business(ctx context.Context, viewer *Actor, businessID uuid.UUID) (b *models.Business, contact bool, err error) {
	b, err = d.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, false, err
	}
	if b == nil {
		return nil, false, apperr.NotFound("business")
	}
	if viewer != nil && (viewer.IsAdmin() || (b.OwnerID != nil && *b.OwnerID == viewer.UserID)) {
		return b, true, nil
	}
	if b.Status != models.StatusApproved {
		return nil, false, apperr.NotFound("business")
	}
	return b, false, nil
}

func (d *Directory) CreateBusiness(ctx context.Context, actor Actor, b models.Business) (*models.Business, error) {
	if missing := required("name", b.Name, "category", b.Category); missing != "" {
		return nil, apperr.Validation("%s is required", missing)
	}
	b.OwnerID = &actor.UserID
	b.Status = models.StatusPending
	return d.businesses.Create(ctx, b)
}

func (d *Directory) SetBusinessStatus(ctx context.Context, businessID uuid.UUID, status string) error {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return apperr.Validation("unknown business status %q", status)
	}
	ok, err := d.businesses.UpdateStatus(ctx, businessID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("business")
	}
	return nil
}

func (d *Directory) PublicProfile(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	p, err := d.profiles.GetPublic(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("profile")
	}
	return p, nil
}

// OwnProfile includes the private columns.
func (d *Directory) OwnProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := d.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("profile")
	}
	return p, nil
}

func (d *Directory) UpdateProfile(ctx context.Context, userID uuid.UUID, upd repository.ProfileUpdate) (*models.Profile, error) {
	if upd.FullName != nil && strings.TrimSpace(*upd.FullName) == "" {
		return nil, apperr.Validation("full_name cannot be empty")
	}
	if upd.PrivacyLevel != nil {
		switch *upd.PrivacyLevel {
		case "public", "members", "private":
		default:
			return nil, apperr.Validation("unknown privacy level %q", *upd.PrivacyLevel)
		}
	}
	p, err := d.profiles.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("profile")
	}
	return p, nil
}
