package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RecordAPI is the per-user CRUD surface of one record type.
type RecordAPI[T any, I any] interface {
	Create(ctx context.Context, userID string, in I) (*T, error)
	List(ctx context.Context, userID string) ([]T, error)
	Get(ctx context.Context, userID string, id uint) (*T, error)
	Update(ctx context.Context, userID string, id uint, in I) (*T, error)
	Delete(ctx context.Context, userID string, id uint) error
	Label() string
}

// RecordHandlers serves education, training, experience and registration
// records under one route shape.
type RecordHandlers[T any, I any] struct {
	records RecordAPI[T, I]
	logger  *logrus.Logger
}

func NewRecordHandlers[T any, I any](records RecordAPI[T, I], logger *logrus.Logger) *RecordHandlers[T, I] {
	return &RecordHandlers[T, I]{records: records, logger: logger}
}

// Register mounts the collection at prefix on router.
func (h *RecordHandlers[T, I]) Register(router *mux.Router, prefix string) {
	router.HandleFunc(prefix, h.Create).Methods("POST")
	router.HandleFunc(prefix, h.List).Methods("GET")
	router.HandleFunc(prefix+"/{id:[0-9]+}", h.Get).Methods("GET")
	router.HandleFunc(prefix+"/{id:[0-9]+}", h.Update).Methods("PATCH", "PUT")
	router.HandleFunc(prefix+"/{id:[0-9]+}", h.Delete).Methods("DELETE")
}

func (h *RecordHandlers[T, I]) message(action string, plural bool) string {
	noun := "record"
	if plural {
		noun = "records"
	}
	return h.records.Label() + " " + noun + " " + strings.TrimSpace(action)
}

func (h *RecordHandlers[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in I
	if !decodeJSON(w, r, &in) {
		return
	}

	row, err := h.records.Create(r.Context(), user.ID, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, h.message("created successfully", false), row)
}

func (h *RecordHandlers[T, I]) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := h.records.List(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, h.message("fetched successfully", true), rows)
}

func (h *RecordHandlers[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	row, err := h.records.Get(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, h.message("retrieved successfully", false), row)
}

func (h *RecordHandlers[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in I
	if !decodeJSON(w, r, &in) {
		return
	}

	row, err := h.records.Update(r.Context(), user.ID, id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, h.message("updated successfully", false), row)
}

func (h *RecordHandlers[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.records.Delete(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, h.message("deleted successfully", false), nil)
}
