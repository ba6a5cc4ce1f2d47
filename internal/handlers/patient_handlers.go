package handlers

import (
	"net/http"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type PatientHandlers struct {
	patients *service.PatientService
	logger   *logrus.Logger
}

func NewPatientHandlers(patients *service.PatientService, logger *logrus.Logger) *PatientHandlers {
	return &PatientHandlers{patients: patients, logger: logger}
}

func (h *PatientHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profiles, err := h.patients.List(r.Context(), user)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Profiles retrieved successfully", profiles)
}

func (h *PatientHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.patients.Get(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Profile retrieved successfully", profile)
}

func (h *PatientHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.PatientProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	profile, err := h.patients.Create(r.Context(), user, in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Profile created successfully", profile)
}

func (h *PatientHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.PatientProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	profile, err := h.patients.Update(r.Context(), user, mux.Vars(r)["id"], in)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Profile updated successfully", profile)
}
