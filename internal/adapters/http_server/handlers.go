package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/observability"
	"staybook/internal/app"
	"staybook/internal/domain"
)

type Handlers struct {
	Auth   *app.AuthService
	Avail  *app.AvailabilityService
	Res    *app.ReservationService
	Tokens domain.Tokens
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(5, 10))
		r.Post("/auth/signup", h.signup)
		r.Post("/auth/login", h.login)
	})

	s.mux.Post("/v1/rooms/filter", h.filterRooms)

	s.mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Tokens))
		r.Get("/v1/users/me", h.me)
		r.Get("/v1/bookings", h.listBookings)
		r.Post("/v1/bookings/confirm", h.confirmBookings)
		r.Delete("/v1/bookings/{id}", h.cancelBooking)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var ce *domain.CapacityError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Bad Request", ve.Reason)
	case errors.As(err, &ce):
		observability.ObserveBooking("capacity_rejected")
		writeProblem(w, http.StatusConflict, "Insufficient Capacity", ce.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// parseStamp accepts an RFC 3339 instant or a bare date. Stays come in as
// date-times, filters usually as dates; both map to night keys downstream.
func parseStamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ---- auth ----

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	token, err := h.Auth.Signup(r.Context(), req.Username, req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// login consumes the OAuth2 password form: username + password, form-encoded.
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid form body")
		return
	}
	token, err := h.Auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	u, err := h.Auth.Me(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}{u.ID, u.Username, u.FullName, u.Email})
}

// ---- rooms ----

type roomOptionJSON struct {
	TypeID      string  `json:"type_id"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
	Remaining   int     `json:"remaining"`
}

func (h *Handlers) filterRooms(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Checkin  string `json:"checkin"`
		Checkout string `json:"checkout"`
		Guests   int    `json:"guests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	checkin, err := parseStamp(req.Checkin)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "checkin must be an ISO-8601 date or date-time")
		return
	}
	checkout, err := parseStamp(req.Checkout)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "checkout must be an ISO-8601 date or date-time")
		return
	}
	if req.Guests < 1 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "guests must be at least 1")
		return
	}

	opts, err := h.Avail.Search(r.Context(), checkin, checkout, req.Guests)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]roomOptionJSON, 0, len(opts))
	for _, o := range opts {
		out = append(out, roomOptionJSON{TypeID: o.TypeID, Type: o.Name, Description: o.Description, Remaining: o.Remaining})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- bookings ----

type bookingJSON struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TypeID    string    `json:"type_id"`
	Checkin   time.Time `json:"checkin"`
	Checkout  time.Time `json:"checkout"`
	Guests    int       `json:"guests"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingJSON(b domain.Booking) bookingJSON {
	return bookingJSON{
		ID:        b.ID,
		UserID:    b.UserID,
		TypeID:    b.TypeID,
		Checkin:   b.Checkin.UTC(),
		Checkout:  b.Checkout.UTC(),
		Guests:    b.Guests,
		CreatedAt: b.CreatedAt.UTC(),
	}
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	bs, err := h.Res.List(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bookingJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) confirmBookings(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	var req struct {
		Items []struct {
			TypeID   string `json:"type_id"`
			Checkin  string `json:"checkin"`
			Checkout string `json:"checkout"`
			Guests   int    `json:"guests"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	items := make([]domain.StayItem, 0, len(req.Items))
	for _, it := range req.Items {
		checkin, err := parseStamp(it.Checkin)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "checkin must be an ISO-8601 date or date-time")
			return
		}
		checkout, err := parseStamp(it.Checkout)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "checkout must be an ISO-8601 date or date-time")
			return
		}
		items = append(items, domain.StayItem{TypeID: it.TypeID, Checkin: checkin, Checkout: checkout, Guests: it.Guests})
	}

	created, err := h.Res.Confirm(r.Context(), uid, items)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.ObserveBooking("confirmed")

	out := make([]bookingJSON, 0, len(created))
	for _, b := range created {
		out = append(out, toBookingJSON(b))
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	if err := h.Res.Cancel(r.Context(), uid, id); err != nil {
		writeError(w, err)
		return
	}
	observability.ObserveBooking("cancelled")
	w.WriteHeader(http.StatusNoContent)
}
