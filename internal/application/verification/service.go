package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verification-api/internal/domain"
	"github.com/verification-api/internal/pkg/validate"
)

// Service is the record lifecycle policy: it interprets the ambiguous write
// payload and enforces expiration before any read reaches a caller.
type Service interface {
	// Write dispatches a payload to either a full upsert or a joinedGame-only
	// update. created reports the full-verification path (maps to 201);
	// a partial update reports created=false (maps to 200).
	Write(ctx context.Context, req domain.VerificationWriteRequest) (rec *domain.VerificationRecord, created bool, err error)
	// Fetch returns the live record for the username. An expired record is
	// deleted inline and reported as not found, exactly as if it never
	// existed.
	Fetch(ctx context.Context, robloxUsername string) (*domain.VerificationRecord, error)
	Delete(ctx context.Context, robloxUsername string) error
}

type recordStore interface {
	Put(ctx context.Context, rec *domain.VerificationRecord) error
	UpdateJoinedGame(ctx context.Context, robloxUsername string, joined bool) (*domain.VerificationRecord, error)
	Get(ctx context.Context, robloxUsername string) (*domain.VerificationRecord, error)
	Delete(ctx context.Context, robloxUsername string) error
}

type service struct {
	repo recordStore
	now  func() time.Time
}

func NewService(repo recordStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Write(ctx context.Context, req domain.VerificationWriteRequest) (*domain.VerificationRecord, bool, error) {
	full, partial, err := req.Classify()
	if err != nil {
		return nil, false, err
	}

	if partial != nil {
		rec, err := s.repo.UpdateJoinedGame(ctx, partial.RobloxUsername, partial.JoinedGame)
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	}

	if err := validate.Struct(full); err != nil {
		return nil, false, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	expiry, err := normalizeExpiry(full.TimeToVerify)
	if err != nil {
		return nil, false, err
	}

	rec := &domain.VerificationRecord{
		RobloxUsername:  full.RobloxUsername,
		RobloxID:        full.RobloxID,
		DiscordUsername: full.DiscordUsername,
		DiscordID:       full.DiscordID,
		TimeToVerify:    full.TimeToVerify,
		ExpiresAt:       expiry.Unix(),
		JoinedGame:      full.JoinedGame,
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *service) Fetch(ctx context.Context, robloxUsername string) (*domain.VerificationRecord, error) {
	rec, err := s.repo.Get(ctx, robloxUsername)
	if err != nil {
		return nil, err
	}

	// now >= expiry means stale: delete inline and report not found. There
	// is no background sweeper; this read is the only thing that reclaims
	// an expired record.
	if !s.now().Before(time.Unix(rec.ExpiresAt, 0)) {
		if err := s.repo.Delete(ctx, robloxUsername); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("verification for %q expired: %w", robloxUsername, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *service) Delete(ctx context.Context, robloxUsername string) error {
	return s.repo.Delete(ctx, robloxUsername)
}
