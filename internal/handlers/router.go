package handlers

import (
	"net/http"

	"github.com/dsaheb/dsahebapi/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Registrar mounts a resource collection under a path prefix.
type Registrar interface {
	Register(router *mux.Router, prefix string)
}

// Routes collects everything the HTTP surface is built from.
type Routes struct {
	Auth       *AuthHandlers
	Listings   *ListingHandlers
	References *ReferenceHandlers
	Patients   *PatientHandlers
	// Records maps a prefix such as "/educations" to its handlers.
	Records map[string]Registrar

	RequireAuth    func(http.Handler) http.Handler
	OTPRateLimit   func(http.Handler) http.Handler
	AllowedOrigins []string
}

func NewRouter(routes Routes, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()

	router.Use(middleware.RecoverMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	api := router.PathPrefix("/api").Subrouter()
	authed := func(h http.HandlerFunc) http.Handler { return routes.RequireAuth(h) }
	limited := func(h http.HandlerFunc) http.Handler { return routes.OTPRateLimit(h) }

	users := api.PathPrefix("/users").Subrouter()
	a := routes.Auth
	users.Handle("/request-otp", limited(a.RequestOTP)).Methods("POST", "OPTIONS")
	users.HandleFunc("/verify-otp", a.VerifyOTP).Methods("POST", "OPTIONS")
	users.HandleFunc("/login-with-otp", a.LoginWithOTP).Methods("POST", "OPTIONS")
	users.HandleFunc("/create-user", a.CreateUser).Methods("POST", "OPTIONS")
	users.HandleFunc("/login", a.Login).Methods("POST", "OPTIONS")
	users.Handle("/request-password-reset", limited(a.RequestPasswordReset)).Methods("POST", "OPTIONS")
	users.HandleFunc("/reset-password", a.ResetPassword).Methods("POST", "OPTIONS")
	users.HandleFunc("/token/refresh", a.RefreshToken).Methods("POST", "OPTIONS")
	users.Handle("/profile", authed(a.Profile)).Methods("GET", "OPTIONS")
	users.Handle("/update-profile", authed(a.UpdateProfile)).Methods("PUT", "PATCH", "OPTIONS")
	users.Handle("/logout", authed(a.Logout)).Methods("POST", "OPTIONS")

	p := routes.Patients
	users.Handle("/patient-profile", authed(p.List)).Methods("GET")
	users.Handle("/patient-profile", authed(p.Create)).Methods("POST")
	users.Handle("/patient-profile/{id}", authed(p.Get)).Methods("GET")
	users.Handle("/patient-profile/{id}", authed(p.Update)).Methods("PATCH", "PUT")

	utils := api.PathPrefix("/utils").Subrouter()
	ref := routes.References
	utils.HandleFunc("/states", ref.States).Methods("GET")
	utils.HandleFunc("/cities", ref.Cities).Methods("GET")
	utils.HandleFunc("/locations", ref.Locations).Methods("GET")
	utils.HandleFunc("/services", ref.Services).Methods("GET")
	utils.HandleFunc("/specializations", ref.Specializations).Methods("GET")
	utils.HandleFunc("/universities", ref.Universities).Methods("GET")
	utils.HandleFunc("/colleges", ref.Colleges).Methods("GET")
	utils.HandleFunc("/degrees", ref.Degrees).Methods("GET")
	utils.HandleFunc("/memberships", ref.Memberships).Methods("GET")
	utils.HandleFunc("/registrations", ref.Registrations).Methods("GET")

	l := routes.Listings
	doctor := api.PathPrefix("/listing/doctor").Subrouter()
	doctor.Use(routes.RequireAuth)
	doctor.HandleFunc("/listings", l.Create).Methods("POST")
	doctor.HandleFunc("/listings/my-listings", l.Mine).Methods("GET")
	doctor.HandleFunc("/listings/search", l.SearchMine).Methods("GET")
	doctor.HandleFunc("/listings/{id:[0-9]+}", l.Update).Methods("PUT", "PATCH")
	doctor.HandleFunc("/listings/{id:[0-9]+}", l.Delete).Methods("DELETE")
	doctor.HandleFunc("/listings/{id:[0-9]+}/images/{kind}", l.UploadImage).Methods("POST")
	doctor.HandleFunc("/listings/{id:[0-9]+}/availability", l.ListAvailability).Methods("GET")
	doctor.HandleFunc("/listings/{id:[0-9]+}/availability", l.AddAvailability).Methods("POST")
	doctor.HandleFunc("/listings/{id:[0-9]+}/availability/{aid:[0-9]+}", l.DeleteAvailability).Methods("DELETE")
	doctor.HandleFunc("/listings/{id:[0-9]+}/unavailability", l.ListUnavailability).Methods("GET")
	doctor.HandleFunc("/listings/{id:[0-9]+}/unavailability", l.AddUnavailability).Methods("POST")
	doctor.HandleFunc("/listings/{id:[0-9]+}/unavailability/{uid:[0-9]+}", l.DeleteUnavailability).Methods("DELETE")

	for prefix, records := range routes.Records {
		records.Register(doctor, prefix)
	}

	public := api.PathPrefix("/listing").Subrouter()
	public.HandleFunc("/listings", l.SearchPublic).Methods("GET")
	public.HandleFunc("/listings/{id:[0-9]+}", l.GetPublic).Methods("GET")
	public.HandleFunc("/listings/{id:[0-9]+}/reviews", l.ListReviews).Methods("GET")
	public.Handle("/listings/{id:[0-9]+}/reviews", authed(l.SubmitReview)).Methods("POST")

	return middleware.CORSMiddleware(routes.AllowedOrigins)(router)
}
