package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/condovia/condo-server-go/internal/audit"
	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/middleware"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/service"
)

// AdminHandler serves the administration portal: account management,
// dues, announcements, parking, and full ledger access.
type AdminHandler struct {
	userService         *service.UserService
	ledgerService       *service.LedgerService
	paymentService      *service.PaymentService
	announcementService *service.AnnouncementService
	parkingService      *service.ParkingService
	sessionMiddleware   func(http.Handler) http.Handler
}

func NewAdminHandler(
	userService *service.UserService,
	ledgerService *service.LedgerService,
	paymentService *service.PaymentService,
	announcementService *service.AnnouncementService,
	parkingService *service.ParkingService,
	sessionMiddleware func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		userService:         userService,
		ledgerService:       ledgerService,
		paymentService:      paymentService,
		announcementService: announcementService,
		parkingService:      parkingService,
		sessionMiddleware:   sessionMiddleware,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.sessionMiddleware)
	r.Use(middleware.RequireRole(model.RoleAdmin))

	// Users
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}", h.GetUser)
	r.Patch("/users/{id}", h.UpdateUser)
	r.Patch("/users/{id}/active", h.SetUserActive)

	// Ledger
	r.Get("/ledger/active", h.ActiveVisitors)
	r.Get("/residents/{id}/history", h.ResidentHistory)
	r.Get("/residents/{id}/stats", h.ResidentStats)

	// Payments
	r.Get("/payments", h.ListPayments)
	r.Post("/payments", h.ChargePayment)
	r.Post("/payments/{id}/paid", h.MarkPaymentPaid)

	// Announcements
	r.Get("/announcements", h.ListAnnouncements)
	r.Post("/announcements", h.PublishAnnouncement)
	r.Delete("/announcements/{id}", h.DeleteAnnouncement)

	// Parking
	r.Get("/parking", h.ListParking)
	r.Post("/parking", h.CreateParkingSpot)
	r.Post("/parking/{id}/assign", h.AssignParkingSpot)
	r.Post("/parking/{id}/unassign", h.UnassignParkingSpot)

	return r
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	users, err := h.userService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": users,
		"total": len(users),
	})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUser(r.Context())

	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Name      string `json:"name"`
		Role      string `json:"role"`
		Unit      string `json:"unit"`
		Matricula string `json:"matricula"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      model.Role(req.Role),
		Unit:      req.Unit,
		Matricula: req.Matricula,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventUserCreate,
		UserID:  admin.ID,
		Details: map[string]interface{}{"createdUserId": user.ID, "role": req.Role},
	})

	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Unit      string `json:"unit"`
		Matricula string `json:"matricula"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	user, err := h.userService.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Unit, req.Matricula)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	if err := h.userService.SetActive(r.Context(), id, req.Active); err != nil {
		writeError(w, err)
		return
	}

	if !req.Active {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventUserDeactivate,
			UserID:  admin.ID,
			Details: map[string]interface{}{"deactivatedUserId": id},
		})
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ActiveVisitors(w http.ResponseWriter, r *http.Request) {
	events, err := h.ledgerService.ActiveVisitors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": formatAccessEvents(events),
		"total": len(events),
	})
}

func (h *AdminHandler) ResidentHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.ledgerService.HistoryForResident(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": formatAccessEvents(events),
		"total": len(events),
	})
}

func (h *AdminHandler) ResidentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledgerService.ResidentVisitStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	payments, err := h.paymentService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": payments,
		"total": len(payments),
	})
}

func (h *AdminHandler) ChargePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResidentID  string `json:"residentId"`
		Period      string `json:"period"`
		AmountCents int64  `json:"amountCents"`
		DueDate     string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		writeError(w, apperrors.InvalidInput("dueDate", "must be YYYY-MM-DD"))
		return
	}

	payment, err := h.paymentService.Charge(r.Context(), req.ResidentID, req.Period, req.AmountCents, dueDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

func (h *AdminHandler) MarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	payment, err := h.paymentService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

func (h *AdminHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	announcements, err := h.announcementService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": announcements,
		"total": len(announcements),
	})
}

func (h *AdminHandler) PublishAnnouncement(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUser(r.Context())

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	announcement, err := h.announcementService.Publish(r.Context(), req.Title, req.Body, admin.ID, admin.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, announcement)
}

func (h *AdminHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListParking(w http.ResponseWriter, r *http.Request) {
	spots, err := h.parkingService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": spots,
		"total": len(spots),
	})
}

func (h *AdminHandler) CreateParkingSpot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number string `json:"number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	spot, err := h.parkingService.CreateSpot(r.Context(), req.Number)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, spot)
}

func (h *AdminHandler) AssignParkingSpot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResidentID string `json:"residentId"`
		Plate      string `json:"plate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	spot, err := h.parkingService.Assign(r.Context(), chi.URLParam(r, "id"), req.ResidentID, req.Plate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, spot)
}

func (h *AdminHandler) UnassignParkingSpot(w http.ResponseWriter, r *http.Request) {
	if err := h.parkingService.Unassign(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
