package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/metrics"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/sse"
	"github.com/condovia/condo-server-go/internal/util"
)

// Clock supplies the ledger's notion of now. Events always carry
// ledger-assigned timestamps, never caller-supplied ones.
type Clock func() time.Time

// RecordEntryInput carries the guard station's entry form. Optional fields
// are empty strings.
type RecordEntryInput struct {
	Plate        string
	VisitorName  string
	VisitReason  string
	ResidentID   string
	ResidentName string
	AccessCodeID string
	GuardID      string
	GuardName    string
}

// VisitStats summarizes a resident's visit history
type VisitStats struct {
	TotalEntries     int `json:"totalEntries"`
	DistinctVisitors int `json:"distinctVisitors"`
	EntriesThisMonth int `json:"entriesThisMonth"`
}

// LedgerService owns the visitor access ledger: the append-only entry/exit
// event log and its derived views. It is the only writer of access events.
type LedgerService struct {
	eventRepo repository.AccessEventRepository
	broker    *sse.Broker
	metrics   *metrics.Metrics
	clock     Clock
}

// NewLedgerService creates a new ledger service. broker and m may be nil;
// clock defaults to time.Now.
func NewLedgerService(
	eventRepo repository.AccessEventRepository,
	broker *sse.Broker,
	m *metrics.Metrics,
	clock Clock,
) *LedgerService {
	if clock == nil {
		clock = time.Now
	}
	return &LedgerService{
		eventRepo: eventRepo,
		broker:    broker,
		metrics:   m,
		clock:     clock,
	}
}

// RecordEntry appends a new active entry event for a visiting vehicle.
// The plate is normalized before any comparison; a plate that already has an
// unresolved entry is rejected so at most one active entry exists per plate.
func (s *LedgerService) RecordEntry(ctx context.Context, input RecordEntryInput) (*model.AccessEvent, error) {
	plate := util.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, apperrors.MissingRequired("plate")
	}

	visitorName := strings.TrimSpace(input.VisitorName)
	if visitorName == "" {
		return nil, apperrors.MissingRequired("visitorName")
	}
	if input.GuardID == "" || input.GuardName == "" {
		return nil, apperrors.MissingRequired("guard identity")
	}

	existing, err := s.eventRepo.FindActiveByPlate(ctx, plate)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.PlateActive(plate)
	}

	entry, err := s.eventRepo.CreateEntry(ctx, model.CreateEntryParams{
		ID:           uuid.NewString(),
		Plate:        plate,
		VisitorName:  visitorName,
		VisitReason:  optional(input.VisitReason),
		ResidentID:   optional(input.ResidentID),
		ResidentName: optional(input.ResidentName),
		GuardID:      input.GuardID,
		GuardName:    input.GuardName,
		AccessCodeID: optional(input.AccessCodeID),
		Timestamp:    s.clock(),
	})
	if err != nil {
		// Two guard stations raced on the same plate; the partial unique
		// index let only one entry through.
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.PlateActive(plate)
		}
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("eventId", entry.ID).
		Str("plate", plate).
		Str("visitor", visitorName).
		Str("guardId", input.GuardID).
		Msg("entry recorded")

	if s.metrics != nil {
		s.metrics.IncrementEntriesRecorded()
	}
	s.publishGateEvent(ctx, entry)

	return entry, nil
}

// RecordExit resolves the active entry for a plate: the entry is deactivated
// and a paired exit event is appended, both in one atomic step. Fails with
// NO_ACTIVE_ENTRY when the plate has no unresolved entry, leaving the ledger
// unchanged.
func (s *LedgerService) RecordExit(ctx context.Context, plate, guardID, guardName string) (*model.AccessEvent, error) {
	normalized := util.NormalizePlate(plate)
	if normalized == "" {
		return nil, apperrors.MissingRequired("plate")
	}
	if guardID == "" || guardName == "" {
		return nil, apperrors.MissingRequired("guard identity")
	}

	exit, err := s.eventRepo.CompleteExit(ctx, normalized, model.CompleteExitParams{
		ID:        uuid.NewString(),
		GuardID:   guardID,
		GuardName: guardName,
		Timestamp: s.clock(),
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if exit == nil {
		log.Warn().Str("plate", normalized).Msg("exit attempted with no active entry")
		return nil, apperrors.NoActiveEntry(normalized)
	}

	log.Info().
		Str("eventId", exit.ID).
		Str("plate", normalized).
		Str("guardId", guardID).
		Msg("exit recorded")

	if s.metrics != nil {
		s.metrics.IncrementExitsRecorded()
	}
	s.publishGateEvent(ctx, exit)

	return exit, nil
}

// ActiveVisitors returns all unresolved entries, most recent first
func (s *LedgerService) ActiveVisitors(ctx context.Context) ([]model.AccessEvent, error) {
	events, err := s.eventRepo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return events, nil
}

// HistoryForResident returns all events referencing a resident, sorted
// descending by timestamp
func (s *LedgerService) HistoryForResident(ctx context.Context, residentID string) ([]model.AccessEvent, error) {
	events, err := s.eventRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return events, nil
}

// FindActiveByPlate normalizes the input and returns the plate's active
// entry, or nil when there is none
func (s *LedgerService) FindActiveByPlate(ctx context.Context, plate string) (*model.AccessEvent, error) {
	normalized := util.NormalizePlate(plate)
	if normalized == "" {
		return nil, apperrors.MissingRequired("plate")
	}
	event, err := s.eventRepo.FindActiveByPlate(ctx, normalized)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return event, nil
}

// ResidentVisitStats derives visit statistics from a resident's history.
// The calendar month boundary follows the ledger clock's location.
func (s *LedgerService) ResidentVisitStats(ctx context.Context, residentID string) (*VisitStats, error) {
	events, err := s.eventRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	now := s.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &VisitStats{}
	visitors := make(map[string]struct{})
	for _, event := range events {
		if event.Kind != model.EventKindEntry {
			continue
		}
		stats.TotalEntries++
		visitors[event.VisitorName] = struct{}{}
		if !event.Timestamp.Before(monthStart) {
			stats.EntriesThisMonth++
		}
	}
	stats.DistinctVisitors = len(visitors)

	return stats, nil
}

func (s *LedgerService) publishGateEvent(ctx context.Context, event *model.AccessEvent) {
	if s.broker == nil {
		return
	}
	if err := s.broker.PublishAccessEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("eventId", event.ID).Msg("failed to publish gate event")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
