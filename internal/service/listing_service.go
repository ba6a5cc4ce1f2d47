package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dsaheb/dsahebapi/internal/events"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/storage"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
)

const (
	MsgListingNotFound = "Listing not found"
	searchLimit        = 100
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type ListingService struct {
	listings      ListingStore
	refs          ReferenceStore
	educations    ScopedStore[models.Education]
	experiences   ScopedStore[models.Experience]
	registrations ScopedStore[models.RegistrationEntry]
	media         storage.ObjectStore
	publisher     events.Publisher
	maxImageBytes int64
	now           func() time.Time
	logger        *logrus.Logger
}

func NewListingService(
	listings ListingStore,
	refs ReferenceStore,
	educations ScopedStore[models.Education],
	experiences ScopedStore[models.Experience],
	registrations ScopedStore[models.RegistrationEntry],
	media storage.ObjectStore,
	publisher events.Publisher,
	maxImageBytes int64,
	logger *logrus.Logger,
) *ListingService {
	return &ListingService{
		listings:      listings,
		refs:          refs,
		educations:    educations,
		experiences:   experiences,
		registrations: registrations,
		media:         media,
		publisher:     publisher,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *ListingService) Create(ctx context.Context, user *models.User, in models.ListingInput) (*models.Listing, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	switch {
	case in.Title == nil:
		return nil, invalid("title is required")
	case in.Description == nil:
		return nil, invalid("description is required")
	case in.ContactNumber == nil:
		return nil, invalid("contact_number is required")
	case in.StateID == nil || in.CityID == nil || in.LocationID == nil:
		return nil, invalid("state_id, city_id and location_id are required")
	}

	listing := &models.Listing{
		UserID:    user.ID,
		Status:    true,
		CreatedBy: user.ID,
	}
	if err := s.apply(ctx, user, listing, in); err != nil {
		return nil, err
	}

	base := listing.Title
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		base = *in.Slug
	}
	unique, err := s.uniqueSlug(ctx, base, 0)
	if err != nil {
		return nil, err
	}
	listing.Slug = unique

	if err := s.clean(ctx, listing); err != nil {
		return nil, err
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ListingCreated, listing)
	return listing, nil
}

// Update applies the non-nil fields of in to a listing owned by user.
func (s *ListingService) Update(ctx context.Context, user *models.User, id uint, in models.ListingInput) (*models.Listing, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	listing, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, user, listing, in); err != nil {
		return nil, err
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		unique, err := s.uniqueSlug(ctx, *in.Slug, listing.ID)
		if err != nil {
			return nil, err
		}
		listing.Slug = unique
	}
	listing.UpdatedBy = user.ID

	if err := s.clean(ctx, listing); err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ListingUpdated, listing)
	return listing, nil
}

// Delete soft-deletes a listing owned by user.
func (s *ListingService) Delete(ctx context.Context, user *models.User, id uint) error {
	listing, err := s.owned(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.listings.Deactivate(ctx, listing.ID); err != nil {
		return err
	}
	s.publish(ctx, events.ListingDeleted, listing)
	return nil
}

func (s *ListingService) Mine(ctx context.Context, user *models.User) ([]models.Listing, error) {
	return s.listings.ListByUser(ctx, user.ID)
}

func (s *ListingService) SearchMine(ctx context.Context, user *models.User, query string) ([]models.Listing, error) {
	return s.listings.Search(ctx, user.ID, query, searchLimit)
}

func (s *ListingService) SearchPublic(ctx context.Context, query string) ([]models.Listing, error) {
	return s.listings.Search(ctx, "", query, searchLimit)
}

func (s *ListingService) GetPublic(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listings.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, notFound(MsgListingNotFound)
	}
	return listing, nil
}

// UploadImage stores a profile or banner image for a listing owned by user.
func (s *ListingService) UploadImage(ctx context.Context, user *models.User, id uint, kind models.ImageKind, filename string, size int64, body io.Reader) (*models.Listing, error) {
	if kind != models.ImageProfile && kind != models.ImageBanner {
		return nil, invalid("image kind must be profile or banner")
	}
	contentType, err := s.validateImage(kind, filename, size)
	if err != nil {
		return nil, err
	}

	listing, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("listing/%s_images/%d-%d%s", kind, listing.ID, s.now().UnixNano(), ext)
	if err := s.media.Put(ctx, key, contentType, body, size); err != nil {
		return nil, newError(ErrUpstream, "Failed to store image")
	}
	if err := s.listings.SetImage(ctx, listing.ID, kind, key); err != nil {
		return nil, err
	}

	if kind == models.ImageProfile {
		listing.ProfileImage = key
	} else {
		listing.BannerImage = key
	}
	return listing, nil
}

// ImageURL resolves a stored image key to its public URL.
func (s *ListingService) ImageURL(key string) string {
	if key == "" {
		return ""
	}
	return s.media.URL(key)
}

func (s *ListingService) owned(ctx context.Context, user *models.User, id uint) (*models.Listing, error) {
	listing, err := s.listings.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.UserID != user.ID {
		return nil, notFound(MsgListingNotFound)
	}
	return listing, nil
}

func (s *ListingService) apply(ctx context.Context, user *models.User, l *models.Listing, in models.ListingInput) error {
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.ContactNumber != nil {
		l.ContactNumber = *in.ContactNumber
	}
	if in.Address != nil {
		l.Address = *in.Address
	}
	if in.StateID != nil {
		l.StateID = *in.StateID
	}
	if in.CityID != nil {
		l.CityID = *in.CityID
	}
	if in.LocationID != nil {
		l.LocationID = *in.LocationID
	}
	if in.MapLink != nil {
		l.MapLink = *in.MapLink
	}
	if in.WhatsappNumber != nil {
		l.WhatsappNumber = *in.WhatsappNumber
	}
	if in.Email != nil {
		l.Email = *in.Email
	}
	if in.QnA != nil {
		l.QnA = *in.QnA
	}
	if in.ExperienceYears != nil {
		l.ExperienceYears = *in.ExperienceYears
	}
	if in.Fee != nil {
		l.Fee = *in.Fee
	}
	if in.VideoLink != nil {
		l.VideoLink = *in.VideoLink
	}

	if in.ServiceIDs != nil {
		rows, err := s.refs.ServicesByIDs(ctx, in.ServiceIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(idSet(in.ServiceIDs)) {
			return invalid("service_ids contains an unknown service")
		}
		l.Services = rows
	}
	if in.SpecializationIDs != nil {
		rows, err := s.refs.SpecializationsByIDs(ctx, in.SpecializationIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(idSet(in.SpecializationIDs)) {
			return invalid("specialization_ids contains an unknown specialization")
		}
		l.Specializations = rows
	}
	if in.MembershipIDs != nil {
		rows, err := s.refs.MembershipsByIDs(ctx, in.MembershipIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(idSet(in.MembershipIDs)) {
			return invalid("membership_ids contains an unknown membership")
		}
		l.Memberships = rows
	}
	if in.EducationIDs != nil {
		rows, err := s.educations.FindMany(ctx, user.ID, in.EducationIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(idSet(in.EducationIDs)) {
			return invalid("education_ids must reference your own education records")
		}
		l.Educations = rows
	}
	if in.ExperienceIDs != nil {
		rows, err := s.experiences.FindMany(ctx, user.ID, in.ExperienceIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(idSet(in.ExperienceIDs)) {
			return invalid("experience_ids must reference your own experience records")
		}
		l.Experiences = rows
	}
	if in.RegistrationIDs != nil {
		rows, err := s.registrations.FindMany(ctx, user.ID, in.RegistrationIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(idSet(in.RegistrationIDs)) {
			return invalid("registration_ids must reference your own registration records")
		}
		l.Registrations = rows
	}
	return nil
}

// clean recomputes the derived fields of a listing and checks the stored
// image names. It runs before every write.
func (s *ListingService) clean(ctx context.Context, l *models.Listing) error {
	if l.Title == "" {
		return invalid("title is required")
	}
	for kind, key := range map[models.ImageKind]string{models.ImageProfile: l.ProfileImage, models.ImageBanner: l.BannerImage} {
		if key == "" {
			continue
		}
		if _, ok := imageContentTypes[strings.ToLower(path.Ext(key))]; !ok {
			return invalid(fmt.Sprintf("%s image must be in JPG, JPEG, or PNG format.", imageLabel(kind)))
		}
	}

	state, err := s.refs.State(ctx, l.StateID)
	if err != nil {
		return err
	}
	city, err := s.refs.City(ctx, l.CityID)
	if err != nil {
		return err
	}
	location, err := s.refs.Location(ctx, l.LocationID)
	if err != nil {
		return err
	}
	if state == nil || city == nil || location == nil {
		return invalid("state_id, city_id and location_id must reference existing places")
	}
	l.State, l.City, l.Location = state, city, location

	l.SearchTags = searchTags(l)
	return nil
}

func (s *ListingService) validateImage(kind models.ImageKind, filename string, size int64) (string, error) {
	if size > s.maxImageBytes {
		return "", invalid(fmt.Sprintf("%s image size must be less than %dMB.", imageLabel(kind), s.maxImageBytes/(1024*1024)))
	}
	contentType, ok := imageContentTypes[strings.ToLower(path.Ext(filename))]
	if !ok {
		return "", invalid(fmt.Sprintf("%s image must be in JPG, JPEG, or PNG format.", imageLabel(kind)))
	}
	return contentType, nil
}

func (s *ListingService) uniqueSlug(ctx context.Context, source string, excludeID uint) (string, error) {
	base := slug.Make(source)
	if base == "" {
		base = "listing"
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := s.listings.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *ListingService) publish(ctx context.Context, subject string, l *models.Listing) {
	err := s.publisher.Publish(ctx, subject, events.ListingEvent{
		ListingID:  l.ID,
		UserID:     l.UserID,
		Slug:       l.Slug,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}

// searchTags joins title, service names, specialization names and the
// state, city and location names, lowercased.
func searchTags(l *models.Listing) string {
	services := make([]string, 0, len(l.Services))
	for _, svc := range l.Services {
		services = append(services, svc.Name)
	}
	specs := make([]string, 0, len(l.Specializations))
	for _, sp := range l.Specializations {
		specs = append(specs, sp.Name)
	}

	var state, city, location string
	if l.State != nil {
		state = l.State.Name
	}
	if l.City != nil {
		city = l.City.Name
	}
	if l.Location != nil {
		location = l.Location.Name
	}

	terms := []string{
		l.Title,
		strings.Join(services, " "),
		strings.Join(specs, " "),
		state,
		city,
		location,
	}
	return strings.ToLower(strings.Join(terms, " "))
}

func imageLabel(kind models.ImageKind) string {
	if kind == models.ImageBanner {
		return "Banner"
	}
	return "Profile"
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
