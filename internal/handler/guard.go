package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/condovia/condo-server-go/internal/audit"
	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/middleware"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/service"
	"github.com/condovia/condo-server-go/internal/sse"
)

// GuardHandler serves the gate station: recording entries and exits,
// checking access codes, and looking up residents by unit plate.
type GuardHandler struct {
	ledgerService       *service.LedgerService
	codeService         *service.AccessCodeService
	directoryService    *service.DirectoryService
	parkingService      *service.ParkingService
	announcementService *service.AnnouncementService
	broker              *sse.Broker
	sessionMiddleware   func(http.Handler) http.Handler
}

func NewGuardHandler(
	ledgerService *service.LedgerService,
	codeService *service.AccessCodeService,
	directoryService *service.DirectoryService,
	parkingService *service.ParkingService,
	announcementService *service.AnnouncementService,
	broker *sse.Broker,
	sessionMiddleware func(http.Handler) http.Handler,
) *GuardHandler {
	return &GuardHandler{
		ledgerService:       ledgerService,
		codeService:         codeService,
		directoryService:    directoryService,
		parkingService:      parkingService,
		announcementService: announcementService,
		broker:              broker,
		sessionMiddleware:   sessionMiddleware,
	}
}

func (h *GuardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.sessionMiddleware)
	r.Use(middleware.RequireRole(model.RoleGuard, model.RoleAdmin))

	r.Post("/entries", h.RecordEntry)
	r.Post("/exits", h.RecordExit)
	r.Get("/active", h.ActiveVisitors)
	r.Get("/plates/{plate}/active", h.FindActiveByPlate)

	r.Post("/codes/validate", h.ValidateCode)

	r.Get("/residents", h.ListResidents)
	r.Get("/residents/by-matricula/{matricula}", h.FindResidentByMatricula)
	r.Get("/parking/by-plate/{plate}", h.FindParkingByPlate)
	r.Get("/announcements", h.ListAnnouncements)

	r.Get("/events", h.StreamEvents)

	return r
}

func (h *GuardHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	guard := middleware.GetUser(r.Context())

	var req struct {
		Plate       string `json:"plate"`
		VisitorName string `json:"visitorName"`
		VisitReason string `json:"visitReason"`
		ResidentID  string `json:"residentId"`
		AccessCode  string `json:"accessCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	input := service.RecordEntryInput{
		Plate:       req.Plate,
		VisitorName: req.VisitorName,
		VisitReason: req.VisitReason,
		GuardID:     guard.ID,
		GuardName:   guard.Name,
	}

	// A presented access code pre-authorizes the visit and pins the entry
	// to the issuing resident. The code is consumed only after the entry
	// is recorded.
	if req.AccessCode != "" {
		code, err := h.codeService.Validate(r.Context(), req.AccessCode)
		if err != nil {
			audit.LogFromRequest(r, audit.Event{
				Type:   audit.EventCodeRejected,
				UserID: guard.ID,
				Plate:  req.Plate,
			})
			writeError(w, err)
			return
		}
		input.AccessCodeID = code.ID
		input.ResidentID = code.ResidentID
		input.ResidentName = code.ResidentName
		if input.VisitorName == "" {
			input.VisitorName = code.VisitorName
		}
	} else if req.ResidentID != "" {
		resident, err := h.directoryService.FindByID(r.Context(), req.ResidentID)
		if err != nil {
			writeError(w, err)
			return
		}
		input.ResidentID = resident.ID
		input.ResidentName = resident.Name
	}

	event, err := h.ledgerService.RecordEntry(r.Context(), input)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventEntryRejected,
			UserID:  guard.ID,
			Plate:   req.Plate,
			Details: map[string]interface{}{"code": string(apperrors.GetCode(err))},
		})
		writeError(w, err)
		return
	}

	if req.AccessCode != "" {
		if err := h.codeService.MarkUsed(r.Context(), req.AccessCode); err != nil {
			log.Error().Err(err).Str("eventId", event.ID).Msg("failed to consume access code")
		}
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventEntryRecorded,
		UserID: guard.ID,
		Plate:  event.Plate,
	})

	writeJSON(w, http.StatusCreated, formatAccessEvent(*event))
}

func (h *GuardHandler) RecordExit(w http.ResponseWriter, r *http.Request) {
	guard := middleware.GetUser(r.Context())

	var req struct {
		Plate string `json:"plate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	event, err := h.ledgerService.RecordExit(r.Context(), req.Plate, guard.ID, guard.Name)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventExitRejected,
			UserID:  guard.ID,
			Plate:   req.Plate,
			Details: map[string]interface{}{"code": string(apperrors.GetCode(err))},
		})
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventExitRecorded,
		UserID: guard.ID,
		Plate:  event.Plate,
	})

	writeJSON(w, http.StatusCreated, formatAccessEvent(*event))
}

func (h *GuardHandler) ActiveVisitors(w http.ResponseWriter, r *http.Request) {
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

func (h *GuardHandler) FindActiveByPlate(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	event, err := h.ledgerService.FindActiveByPlate(r.Context(), plate)
	if err != nil {
		writeError(w, err)
		return
	}
	if event == nil {
		writeError(w, apperrors.NoActiveEntry(plate))
		return
	}

	writeJSON(w, http.StatusOK, formatAccessEvent(*event))
}

// ValidateCode is a check-only lookup for the gate UI. It does not consume
// the code; consumption happens when the entry is recorded.
func (h *GuardHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	guard := middleware.GetUser(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, apperrors.MissingRequired("code"))
		return
	}

	code, err := h.codeService.Validate(r.Context(), req.Code)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:   audit.EventCodeRejected,
			UserID: guard.ID,
		})
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventCodeValidated,
		UserID: guard.ID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":        true,
		"residentId":   code.ResidentID,
		"residentName": code.ResidentName,
		"visitorName":  code.VisitorName,
		"validUntil":   code.ValidUntil.Format(time.RFC3339),
	})
}

func (h *GuardHandler) ListResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := h.directoryService.ListActiveResidents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]map[string]any, len(residents))
	for i, resident := range residents {
		items[i] = map[string]any{
			"id":        resident.ID,
			"name":      resident.Name,
			"unit":      resident.Unit,
			"matricula": resident.Matricula,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (h *GuardHandler) FindResidentByMatricula(w http.ResponseWriter, r *http.Request) {
	matricula := chi.URLParam(r, "matricula")

	resident, err := h.directoryService.FindByMatricula(r.Context(), matricula)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        resident.ID,
		"name":      resident.Name,
		"unit":      resident.Unit,
		"matricula": resident.Matricula,
	})
}

func (h *GuardHandler) FindParkingByPlate(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	spot, err := h.parkingService.FindByPlate(r.Context(), plate)
	if err != nil {
		writeError(w, err)
		return
	}
	if spot == nil {
		writeError(w, apperrors.NotFound("parking spot"))
		return
	}

	writeJSON(w, http.StatusOK, spot)
}

func (h *GuardHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
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

// StreamEvents pushes live gate activity to connected dashboards over SSE.
func (h *GuardHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apperrors.Internal("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := h.broker.Subscribe()
	defer h.broker.Unsubscribe(client)

	user := middleware.GetUser(r.Context())
	log.Info().Str("userId", user.ID).Msg("gate event stream opened")

	h.sendEvent(w, flusher, "connected", map[string]any{
		"clients": h.broker.ClientCount(),
	})

	heartbeat := time.NewTicker(sse.HeartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("userId", user.ID).Msg("gate event stream closed by client")
			return

		case <-client.Done:
			log.Info().Str("userId", user.ID).Msg("gate event stream closed by broker")
			return

		case event := <-client.Events:
			if err := h.sendRawEvent(w, flusher, event); err != nil {
				log.Error().Err(err).Msg("failed to send gate event")
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": ping\n\n"); err != nil {
				log.Debug().Str("userId", user.ID).Msg("heartbeat failed, closing stream")
				return
			}
			flusher.Flush()
		}
	}
}

func (h *GuardHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return h.sendRawEvent(w, flusher, sse.Event{Type: eventType, Data: jsonData})
}

func (h *GuardHandler) sendRawEvent(w http.ResponseWriter, flusher http.Flusher, event sse.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", event.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
