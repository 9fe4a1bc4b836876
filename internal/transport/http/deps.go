package http

import (
	"context"

	"github.com/verification-api/internal/domain"
)

// VerificationRepository is the minimal interface the router requires from a
// verification record store.
type VerificationRepository interface {
	Put(ctx context.Context, rec *domain.VerificationRecord) error
	UpdateJoinedGame(ctx context.Context, robloxUsername string, joined bool) (*domain.VerificationRecord, error)
	Get(ctx context.Context, robloxUsername string) (*domain.VerificationRecord, error)
	Delete(ctx context.Context, robloxUsername string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo VerificationRepository
}
