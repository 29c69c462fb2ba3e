package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condovia/condo-server-go/internal/audit"
	"github.com/condovia/condo-server-go/internal/config"
	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/middleware"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/service"
)

// ResidentHandler serves the resident portal: issuing access codes,
// reviewing visit history, dues, and announcements.
type ResidentHandler struct {
	ledgerService       *service.LedgerService
	codeService         *service.AccessCodeService
	paymentService      *service.PaymentService
	announcementService *service.AnnouncementService
	parkingService      *service.ParkingService
	rateLimiter         *service.RateLimiter
	sessionMiddleware   func(http.Handler) http.Handler
}

func NewResidentHandler(
	ledgerService *service.LedgerService,
	codeService *service.AccessCodeService,
	paymentService *service.PaymentService,
	announcementService *service.AnnouncementService,
	parkingService *service.ParkingService,
	rateLimiter *service.RateLimiter,
	sessionMiddleware func(http.Handler) http.Handler,
) *ResidentHandler {
	return &ResidentHandler{
		ledgerService:       ledgerService,
		codeService:         codeService,
		paymentService:      paymentService,
		announcementService: announcementService,
		parkingService:      parkingService,
		rateLimiter:         rateLimiter,
		sessionMiddleware:   sessionMiddleware,
	}
}

func (h *ResidentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.sessionMiddleware)
	r.Use(middleware.RequireRole(model.RoleResident))

	r.Post("/codes", h.GenerateCode)
	r.Get("/codes", h.ListCodes)

	r.Get("/history", h.History)
	r.Get("/stats", h.VisitStats)

	r.Get("/payments", h.ListPayments)
	r.Get("/parking", h.ListParking)
	r.Get("/announcements", h.ListAnnouncements)

	return r
}

func (h *ResidentHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	resident := middleware.GetUser(r.Context())

	if h.rateLimiter != nil {
		allowed, resetAt := h.rateLimiter.CheckCodeGenerationLimit(
			r.Context(), resident.ID, config.CodeGenerationsPerWindow, config.CodeGenerationWindow)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				UserID:  resident.ID,
				Details: map[string]interface{}{"scope": "code_generation"},
			})
			w.Header().Set("Retry-After", resetAt.UTC().Format(http.TimeFormat))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}
	}

	var req struct {
		VisitorName string `json:"visitorName"`
		ValidHours  int    `json:"validHours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	code, err := h.codeService.Generate(r.Context(), resident.ID, resident.Name, req.VisitorName, req.ValidHours)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventCodeGenerated,
		UserID: resident.ID,
	})

	writeJSON(w, http.StatusCreated, formatAccessCode(*code))
}

func (h *ResidentHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	resident := middleware.GetUser(r.Context())

	codes, err := h.codeService.ListForResident(r.Context(), resident.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]map[string]any, len(codes))
	for i, code := range codes {
		items[i] = formatAccessCode(code)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (h *ResidentHandler) History(w http.ResponseWriter, r *http.Request) {
	resident := middleware.GetUser(r.Context())

	events, err := h.ledgerService.HistoryForResident(r.Context(), resident.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": formatAccessEvents(events),
		"total": len(events),
	})
}

func (h *ResidentHandler) VisitStats(w http.ResponseWriter, r *http.Request) {
	resident := middleware.GetUser(r.Context())

	stats, err := h.ledgerService.ResidentVisitStats(r.Context(), resident.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *ResidentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	resident := middleware.GetUser(r.Context())

	payments, err := h.paymentService.ListForResident(r.Context(), resident.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": payments,
		"total": len(payments),
	})
}

func (h *ResidentHandler) ListParking(w http.ResponseWriter, r *http.Request) {
	resident := middleware.GetUser(r.Context())

	spots, err := h.parkingService.ListForResident(r.Context(), resident.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": spots,
		"total": len(spots),
	})
}

func (h *ResidentHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
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
