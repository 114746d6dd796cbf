package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
)

// ReservationHandler serves the public and customer booking endpoints.
// Guests may query availability and book; viewing and cancelling a
// reservation requires being its owner or an administrator.
type ReservationHandler struct {
	Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

type createReservationReq struct {
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Guests           int    `json:"guests"`
	SpecialRequests  string `json:"special_requests"`
	PaymentConfirmed bool   `json:"payment_confirmed"`
	PaymentRef       string `json:"payment_ref"`
}

// Settings handles GET /v1/settings.
func (h *ReservationHandler) Settings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Settings())
}

// Availability handles GET /v1/availability?date=YYYY-MM-DD&guests=N and
// returns the start times at which some table can seat the party.
func (h *ReservationHandler) Availability(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	guests, ok := parsePositiveInt(c.QueryParam("guests"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be a positive integer"})
	}
	slots := h.Svc.AvailableSlots(c.Request().Context(), date, guests)
	return c.JSON(http.StatusOK, echo.Map{
		"date":   date,
		"guests": guests,
		"slots":  slots,
	})
}

// Create handles POST /v1/reservations.  Authenticated callers have
// their contact details prefilled from the token; anonymous callers are
// booked as the guest identity and must supply them.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in := model.NewReservation{
		UserID:           middleware.CurrentUserID(c),
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerEmail:    strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		Date:             strings.TrimSpace(req.Date),
		Time:             strings.TrimSpace(req.Time),
		Guests:           req.Guests,
		SpecialRequests:  strings.TrimSpace(req.SpecialRequests),
		PaymentConfirmed: req.PaymentConfirmed,
		PaymentRef:       req.PaymentRef,
	}
	if id, ok := middleware.CurrentIdentity(c); ok {
		if in.CustomerName == "" {
			in.CustomerName = id.Name
		}
		if in.CustomerEmail == "" {
			in.CustomerEmail = id.Email
		}
		if in.CustomerPhone == "" {
			in.CustomerPhone = id.Phone
		}
	}
	if msg := validateBooking(in); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	r, err := h.Svc.CreateReservation(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotConfirmed) {
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment not confirmed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusCreated, r)
}

func validateBooking(in model.NewReservation) string {
	switch {
	case in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "":
		return "customer_name/customer_email/customer_phone required"
	case !strings.Contains(in.CustomerEmail, "@"):
		return "invalid customer_email"
	case !validDate(in.Date):
		return "date must be YYYY-MM-DD"
	case !validClock(in.Time):
		return "time must be HH:MM"
	case in.Guests <= 0:
		return "guests must be a positive integer"
	}
	return ""
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	r, ok := h.Svc.Reservation(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if !canAccess(c, r) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, r)
}

// Cancel handles DELETE /v1/reservations/:id.  The reservation is marked
// cancelled and refunded; it is never removed from the ledger.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id := c.Param("id")
	r, ok := h.Svc.Reservation(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if !canAccess(c, r) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	r, err := h.Svc.CancelActive(c.Request().Context(), id)
	switch {
	case errors.Is(err, service.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
	case errors.Is(err, service.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
	}
	return c.JSON(http.StatusOK, r)
}

// Mine handles GET /v1/my-reservations.
func (h *ReservationHandler) Mine(c echo.Context) error {
	uid := middleware.CurrentUserID(c)
	if uid == model.GuestUserID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, h.Svc.UserOverview(uid))
}

// canAccess reports whether the caller owns r or is an administrator.
// Guest reservations are reachable by administrators only.
func canAccess(c echo.Context, r model.Reservation) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	uid := middleware.CurrentUserID(c)
	return uid != model.GuestUserID && uid == r.UserID
}
