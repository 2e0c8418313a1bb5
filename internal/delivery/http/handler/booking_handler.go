package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"medguide/internal/delivery/dto"
	"medguide/internal/delivery/http/middleware"
	"medguide/internal/usecase"
	"medguide/pkg/response"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	intakeUsecase usecase.IntakeUsecase
	recordUsecase usecase.RecordUsecase
}

func NewBookingHandler(intakeUsecase usecase.IntakeUsecase, recordUsecase usecase.RecordUsecase) *BookingHandler {
	return &BookingHandler{
		intakeUsecase: intakeUsecase,
		recordUsecase: recordUsecase,
	}
}

// CreateBooking validates and stores a consultation booking, then notifies the clinic.
// A notification failure still answers 201 with a warning.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	confirmation, err := h.intakeUsecase.SubmitBooking(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to create booking")
		return
	}

	if confirmation.Warning != "" {
		response.SuccessWithWarning(w, http.StatusCreated, "Booking created successfully", confirmation, confirmation.Warning)
		return
	}
	response.Success(w, http.StatusCreated, "Booking created successfully", confirmation)
}

func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.recordUsecase.ListBookings(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings.Bookings, &response.Meta{Total: bookings.Total})
}

func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	actor, _ := middleware.GetSubjectFromContext(r.Context())
	if err := h.recordUsecase.DeleteBooking(r.Context(), actor, bookingID); err != nil {
		respondError(w, err, "Failed to delete booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking deleted successfully", nil)
}
