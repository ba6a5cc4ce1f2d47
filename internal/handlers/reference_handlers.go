package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

// ReferenceLookup is the read-only lookup data listings are built from.
type ReferenceLookup interface {
	States(ctx context.Context) ([]models.State, error)
	Cities(ctx context.Context, stateID uint) ([]models.City, error)
	Locations(ctx context.Context, cityID uint) ([]models.Location, error)
	Services(ctx context.Context) ([]models.Service, error)
	Specializations(ctx context.Context) ([]models.Specialization, error)
	Universities(ctx context.Context) ([]models.University, error)
	Colleges(ctx context.Context) ([]models.College, error)
	Degrees(ctx context.Context) ([]models.Degree, error)
	Memberships(ctx context.Context) ([]models.Membership, error)
	Registrations(ctx context.Context) ([]models.Registration, error)
}

type ReferenceHandlers struct {
	refs   ReferenceLookup
	logger *logrus.Logger
}

func NewReferenceHandlers(refs ReferenceLookup, logger *logrus.Logger) *ReferenceHandlers {
	return &ReferenceHandlers{refs: refs, logger: logger}
}

// list adapts a parameterless lookup to a handler.
func list[T any](h *ReferenceHandlers, name string, fetch func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := fetch(r.Context())
		if err != nil {
			respondWithServiceError(w, h.logger, r, err)
			return
		}
		respondSuccess(w, name+" fetched successfully", rows)
	}
}

// queryID reads an optional numeric filter; zero means no filter.
func queryID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func (h *ReferenceHandlers) States(w http.ResponseWriter, r *http.Request) {
	list(h, "States", h.refs.States)(w, r)
}

func (h *ReferenceHandlers) Cities(w http.ResponseWriter, r *http.Request) {
	stateID, ok := queryID(w, r, "state_id")
	if !ok {
		return
	}
	list(h, "Cities", func(ctx context.Context) ([]models.City, error) {
		return h.refs.Cities(ctx, stateID)
	})(w, r)
}

func (h *ReferenceHandlers) Locations(w http.ResponseWriter, r *http.Request) {
	cityID, ok := queryID(w, r, "city_id")
	if !ok {
		return
	}
	list(h, "Locations", func(ctx context.Context) ([]models.Location, error) {
		return h.refs.Locations(ctx, cityID)
	})(w, r)
}

func (h *ReferenceHandlers) Services(w http.ResponseWriter, r *http.Request) {
	list(h, "Services", h.refs.Services)(w, r)
}

func (h *ReferenceHandlers) Specializations(w http.ResponseWriter, r *http.Request) {
	list(h, "Specializations", h.refs.Specializations)(w, r)
}

func (h *ReferenceHandlers) Universities(w http.ResponseWriter, r *http.Request) {
	list(h, "Universities", h.refs.Universities)(w, r)
}

func (h *ReferenceHandlers) Colleges(w http.ResponseWriter, r *http.Request) {
	list(h, "Colleges", h.refs.Colleges)(w, r)
}

func (h *ReferenceHandlers) Degrees(w http.ResponseWriter, r *http.Request) {
	list(h, "Degrees", h.refs.Degrees)(w, r)
}

func (h *ReferenceHandlers) Memberships(w http.ResponseWriter, r *http.Request) {
	list(h, "Memberships", h.refs.Memberships)(w, r)
}

func (h *ReferenceHandlers) Registrations(w http.ResponseWriter, r *http.Request) {
	list(h, "Registrations", h.refs.Registrations)(w, r)
}
