package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avstrong/roomdash/internal/booking"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, action string) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return
	}

	if notFoundErr := booking.IsNotFoundError(err); notFoundErr != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error()})

		return
	}

	if errors.Is(err, booking.ErrIdempotencyKeyReused) {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

		return
	}

	s.l.LogErrorf("Could not %s: %v", action, err.Error())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) listRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.bManager.ListRooms(r.Context())
	if err != nil {
		s.writeError(w, err, "list rooms")

		return
	}

	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) getRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, err := s.bManager.GetRoom(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "get room")

		return
	}

	s.writeJSON(w, http.StatusOK, room)
}

func (s *Server) slotsHandler(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.bManager.Now().Format(booking.DateLayout)
	}

	if _, err := time.Parse(booking.DateLayout, date); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string][]string{
			"date": {"date must match YYYY-MM-DD"},
		})

		return
	}

	slots, err := s.bManager.GetSlots(r.Context(), r.PathValue("id"), date)
	if err != nil {
		s.writeError(w, err, "get slots")

		return
	}

	s.writeJSON(w, http.StatusOK, slots)
}

func (s *Server) listBookingsHandler(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bManager.ListBookings(r.Context())
	if err != nil {
		s.writeError(w, err, "list bookings")

		return
	}

	s.writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input booking.CreateInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		ctx = booking.NewContextWithIdempotencyKey(ctx, key)
	}

	out, err := s.bManager.CreateBooking(ctx, &input)
	if err != nil {
		s.writeError(w, err, "create a booking")

		return
	}

	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.bManager.CancelBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "cancel a booking")

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.bManager.CurrentUser(r.Context())
	if err != nil {
		s.writeError(w, err, "get current user")

		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// wrap applies the per-route middlewares. The access log sits outside recover
// so panics are still logged and measured as 500s.
func (s *Server) wrap(h http.Handler) http.Handler {
	return s.applyMiddlewares(h, s.recoverMiddleware(), s.loggerMiddleware())
}

func (s *Server) addRoutes(r *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		r.Handle(pattern, s.wrap(h))
	}

	handle("GET /api/rooms/v1", s.listRoomsHandler)
	handle("GET /api/rooms/v1/{id}", s.getRoomHandler)
	handle("GET /api/rooms/v1/{id}/slots", s.slotsHandler)
	handle("GET /api/bookings/v1", s.listBookingsHandler)
	handle("POST /api/bookings/v1", s.createBookingHandler)
	handle("POST /api/bookings/v1/{id}/cancel", s.cancelBookingHandler)
	handle("GET /api/users/v1/me", s.currentUserHandler)
	handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), s.livenessHandler)

	if s.metrics != nil && s.conf.MetricsEndpoint != "" {
		r.Handle(fmt.Sprintf("GET %s", s.conf.MetricsEndpoint), s.metrics.Handler())
	}
}
