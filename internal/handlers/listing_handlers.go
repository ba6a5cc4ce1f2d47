package handlers

import (
	"net/http"
	"strings"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ListingHandlers struct {
	listings  *service.ListingService
	schedule  *service.ScheduleService
	reviews   *service.ReviewService
	maxUpload int64
	logger    *logrus.Logger
}

func NewListingHandlers(listings *service.ListingService, schedule *service.ScheduleService, reviews *service.ReviewService, maxUpload int64, logger *logrus.Logger) *ListingHandlers {
	return &ListingHandlers{
		listings:  listings,
		schedule:  schedule,
		reviews:   reviews,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// ListingResponse adds resolved image URLs to a listing.
type ListingResponse struct {
	models.Listing
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	BannerImageURL  string `json:"banner_image_url,omitempty"`
}

func (h *ListingHandlers) toResponse(l *models.Listing) ListingResponse {
	return ListingResponse{
		Listing:         *l,
		ProfileImageURL: h.listings.ImageURL(l.ProfileImage),
		BannerImageURL:  h.listings.ImageURL(l.BannerImage),
	}
}

func (h *ListingHandlers) toResponses(ls []models.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(ls))
	for i := range ls {
		out = append(out, h.toResponse(&ls[i]))
	}
	return out
}

func (h *ListingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.ListingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	listing, err := h.listings.Create(r.Context(), user, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listing created successfully", h.toResponse(listing))
}

func (h *ListingHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.ListingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	listing, err := h.listings.Update(r.Context(), user, id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listing updated successfully", h.toResponse(listing))
}

func (h *ListingHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listings.Delete(r.Context(), user, id); err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listing marked as deleted.", nil)
}

func (h *ListingHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	listings, err := h.listings.Mine(r.Context(), user)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listings fetched successfully", h.toResponses(listings))
}

func (h *ListingHandlers) SearchMine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	listings, err := h.listings.SearchMine(r.Context(), user, r.URL.Query().Get("query"))
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listings fetched successfully", h.toResponses(listings))
}

func (h *ListingHandlers) SearchPublic(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.SearchPublic(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listings fetched successfully", h.toResponses(listings))
}

func (h *ListingHandlers) GetPublic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	listing, err := h.listings.GetPublic(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Listing fetched successfully", h.toResponse(listing))
}

// UploadImage expects a multipart form with the file in the "image" field.
func (h *ListingHandlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	kind := models.ImageKind(strings.ToLower(mux.Vars(r)["kind"]))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(h.maxUpload + 1<<20); err != nil {
		respondWithError(w, http.StatusBadRequest, "Image upload is too large or malformed")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	listing, err := h.listings.UploadImage(r.Context(), user, id, kind, header.Filename, header.Size, file)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Image uploaded successfully", h.toResponse(listing))
}

func (h *ListingHandlers) ListAvailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rows, err := h.schedule.ListAvailability(r.Context(), user, id)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Availability fetched successfully", rows)
}

func (h *ListingHandlers) AddAvailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.AvailabilityInput
	if !decodeJSON(w, r, &in) {
		return
	}

	row, err := h.schedule.AddAvailability(r.Context(), user, id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Availability created successfully", row)
}

func (h *ListingHandlers) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	aid, ok := pathID(w, r, "aid")
	if !ok {
		return
	}

	if err := h.schedule.DeleteAvailability(r.Context(), user, id, aid); err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Availability deleted successfully", nil)
}

func (h *ListingHandlers) ListUnavailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rows, err := h.schedule.ListUnavailability(r.Context(), user, id)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Unavailability fetched successfully", rows)
}

func (h *ListingHandlers) AddUnavailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.UnavailabilityInput
	if !decodeJSON(w, r, &in) {
		return
	}

	row, err := h.schedule.AddUnavailability(r.Context(), user, id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Unavailability created successfully", row)
}

func (h *ListingHandlers) DeleteUnavailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	uid, ok := pathID(w, r, "uid")
	if !ok {
		return
	}

	if err := h.schedule.DeleteUnavailability(r.Context(), user, id, uid); err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Unavailability deleted successfully", nil)
}

func (h *ListingHandlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}

	review, err := h.reviews.Submit(r.Context(), user, id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Review submitted successfully", review)
}

func (h *ListingHandlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.List(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Reviews fetched successfully", reviews)
}
