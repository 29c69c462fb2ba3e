package handler

import (
	"net/http"
	"time"

	"github.com/condovia/condo-server-go/internal/httputil"
	"github.com/condovia/condo-server-go/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func formatAccessEvent(event model.AccessEvent) map[string]any {
	return map[string]any{
		"id":           event.ID,
		"kind":         event.Kind,
		"plate":        event.Plate,
		"visitorName":  event.VisitorName,
		"visitReason":  event.VisitReason,
		"residentId":   event.ResidentID,
		"residentName": event.ResidentName,
		"guardId":      event.GuardID,
		"guardName":    event.GuardName,
		"timestamp":    event.Timestamp.Format(time.RFC3339),
		"isActive":     event.IsActive,
	}
}

func formatAccessEvents(events []model.AccessEvent) []map[string]any {
	formatted := make([]map[string]any, len(events))
	for i, event := range events {
		formatted[i] = formatAccessEvent(event)
	}
	return formatted
}

func formatAccessCode(code model.AccessCode) map[string]any {
	return map[string]any{
		"id":           code.ID,
		"code":         code.Code,
		"residentId":   code.ResidentID,
		"residentName": code.ResidentName,
		"visitorName":  code.VisitorName,
		"validUntil":   code.ValidUntil.Format(time.RFC3339),
		"usedAt":       formatTime(code.UsedAt),
		"createdAt":    code.CreatedAt.Format(time.RFC3339),
	}
}
