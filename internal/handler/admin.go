package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
)

// AdminHandler serves the administrator dashboard: the full ledger,
// status toggles, statistics, settings and table management.  Routes
// are expected to sit behind JWTAuth and RequireRole(ADMIN).
type AdminHandler struct {
	Svc *service.ReservationService
}

func NewAdminHandler(svc *service.ReservationService) *AdminHandler {
	if svc == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Svc: svc}
}

// ListReservations handles GET /v1/admin/reservations.  An optional
// ?status= filter narrows the result.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	all := h.Svc.Reservations()
	status := model.ReservationStatus(c.QueryParam("status"))
	if status == "" {
		return c.JSON(http.StatusOK, all)
	}
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	out := make([]model.Reservation, 0, len(all))
	for _, r := range all {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus handles PATCH /v1/admin/reservations/:id/status.  The
// payment status is not touched.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status model.ReservationStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !body.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	r, ok := h.Svc.UpdateReservationStatus(c.Request().Context(), c.Param("id"), body.Status)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, r)
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Stats())
}

// UpdateSettings handles PUT and PATCH /v1/admin/settings.  Both merge
// the supplied fields into the current settings.  Field shapes are
// checked here; cross-field rules (opening before closing) are not.
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	var p model.SettingsPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateSettingsPatch(p); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, h.Svc.UpdateSettings(p))
}

func validateSettingsPatch(p model.SettingsPatch) string {
	if p.OpeningTime != nil {
		if _, err := availability.ParseClock(*p.OpeningTime); err != nil {
			return "opening_time must be HH:MM"
		}
	}
	if p.ClosingTime != nil {
		if _, err := availability.ParseClock(*p.ClosingTime); err != nil {
			return "closing_time must be HH:MM"
		}
	}
	if p.SlotDuration != nil && *p.SlotDuration <= 0 {
		return "slot_duration must be positive"
	}
	if p.ReservationPriceCents != nil && *p.ReservationPriceCents < 0 {
		return "reservation_price_cents must not be negative"
	}
	if p.Tables != nil {
		for _, t := range *p.Tables {
			if t.Number <= 0 || t.Capacity <= 0 {
				return "tables need a positive number and capacity"
			}
		}
	}
	return ""
}

// AddTable handles POST /v1/admin/tables.
func (h *AdminHandler) AddTable(c echo.Context) error {
	var nt model.NewTable
	if err := c.Bind(&nt); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if nt.Number <= 0 || nt.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity must be positive"})
	}
	return c.JSON(http.StatusCreated, h.Svc.AddTable(nt))
}

// UpdateTable handles PATCH /v1/admin/tables/:id.
func (h *AdminHandler) UpdateTable(c echo.Context) error {
	var p model.TablePatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if (p.Number != nil && *p.Number <= 0) || (p.Capacity != nil && *p.Capacity <= 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity must be positive"})
	}
	t, ok := h.Svc.UpdateTable(c.Param("id"), p)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	return c.JSON(http.StatusOK, t)
}

// RemoveTable handles DELETE /v1/admin/tables/:id.  Reservations that
// reference the table's number are kept as they are.
func (h *AdminHandler) RemoveTable(c echo.Context) error {
	if !h.Svc.RemoveTable(c.Param("id")) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
