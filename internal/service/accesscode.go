package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/condovia/condo-server-go/internal/config"
	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/metrics"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/util"
)

// Ambiguous characters (0/O, 1/I) are excluded so guards can read codes
// back over the intercom.
const accessCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// AccessCodeService handles visitor pre-authorization codes: a resident
// issues a time-boxed, single-use code; the guard validates and consumes it
// at entry time.
type AccessCodeService struct {
	codeRepo repository.AccessCodeRepository
	metrics  *metrics.Metrics
	clock    Clock
}

// NewAccessCodeService creates a new access code service. m may be nil;
// clock defaults to time.Now.
func NewAccessCodeService(codeRepo repository.AccessCodeRepository, m *metrics.Metrics, clock Clock) *AccessCodeService {
	if clock == nil {
		clock = time.Now
	}
	return &AccessCodeService{
		codeRepo: codeRepo,
		metrics:  m,
		clock:    clock,
	}
}

// Generate issues a new code valid for validHours from now. Hours outside
// [1, MaxCodeValidHours] are clamped.
func (s *AccessCodeService) Generate(ctx context.Context, residentID, residentName, visitorName string, validHours int) (*model.AccessCode, error) {
	if residentID == "" || residentName == "" {
		return nil, apperrors.MissingRequired("resident identity")
	}
	visitorName = strings.TrimSpace(visitorName)
	if visitorName == "" {
		return nil, apperrors.MissingRequired("visitorName")
	}

	if validHours <= 0 {
		validHours = config.DefaultCodeValidHours
	}
	if validHours > config.MaxCodeValidHours {
		validHours = config.MaxCodeValidHours
	}

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = generateAccessCode()
		existing, _ := s.codeRepo.FindByCode(ctx, code)
		if existing == nil {
			break
		}
	}

	now := s.clock()
	ac, err := s.codeRepo.Create(ctx, model.CreateAccessCodeParams{
		ID:           uuid.NewString(),
		Code:         code,
		ResidentID:   residentID,
		ResidentName: residentName,
		VisitorName:  visitorName,
		ValidUntil:   now.Add(time.Duration(validHours) * time.Hour),
		CreatedAt:    now,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("code", util.MaskCode(code)).
		Str("residentId", residentID).
		Time("validUntil", ac.ValidUntil).
		Msg("access code issued")

	if s.metrics != nil {
		s.metrics.IncrementCodesIssued()
	}

	return ac, nil
}

// Validate returns the code only if it exists, is unused, and is unexpired.
// Unknown, used, and expired codes are indistinguishable to the caller; the
// precise reason is logged for operators.
func (s *AccessCodeService) Validate(ctx context.Context, code string) (*model.AccessCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, apperrors.InvalidOrExpiredCode()
	}

	ac, err := s.codeRepo.FindActiveByCode(ctx, normalized, s.clock())
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if ac == nil {
		s.logRejection(ctx, normalized)
		if s.metrics != nil {
			s.metrics.IncrementCodeRejections()
		}
		return nil, apperrors.InvalidOrExpiredCode()
	}

	return ac, nil
}

// MarkUsed consumes a code. Idempotent: consuming an already-used code
// keeps its original used-at time.
func (s *AccessCodeService) MarkUsed(ctx context.Context, code string) error {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := s.codeRepo.MarkUsed(ctx, normalized, s.clock()); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("code", util.MaskCode(normalized)).Msg("access code consumed")
	return nil
}

// ListForResident returns all codes a resident has issued, newest first
func (s *AccessCodeService) ListForResident(ctx context.Context, residentID string) ([]model.AccessCode, error) {
	codes, err := s.codeRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return codes, nil
}

// logRejection distinguishes the rejection reason in the log even though
// callers only ever see INVALID_OR_EXPIRED_CODE.
func (s *AccessCodeService) logRejection(ctx context.Context, code string) {
	ac, err := s.codeRepo.FindByCode(ctx, code)
	evt := log.Warn().Str("code", util.MaskCode(code))
	switch {
	case err != nil || ac == nil:
		evt.Msg("access code rejected: unknown")
	case ac.UsedAt != nil:
		evt.Msg("access code rejected: already used")
	default:
		evt.Msg("access code rejected: expired")
	}
}

// generateAccessCode generates an 8-character code in XXXX-XXXX format
func generateAccessCode() string {
	chars := []byte(accessCodeChars)
	part1 := make([]byte, 4)
	part2 := make([]byte, 4)

	for i := 0; i < 4; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		part1[i] = chars[n.Int64()]
	}
	for i := 0; i < 4; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		part2[i] = chars[n.Int64()]
	}

	return fmt.Sprintf("%s-%s", string(part1), string(part2))
}
