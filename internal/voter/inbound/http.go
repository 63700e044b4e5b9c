package inbound

import (
	"context"

	"github.com/shandysiswandi/evoting/internal/pkg/router"
	"github.com/shandysiswandi/evoting/internal/voter/usecase"
)

type uc interface {
	RegisterVoter(ctx context.Context, in usecase.RegisterVoterInput) (*usecase.RegisterVoterOutput, error)

	SendOTP(ctx context.Context, in usecase.SendOTPInput) error
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.SessionOutput, error)

	RegisterFingerprint(ctx context.Context, in usecase.FingerprintInput) error
	AuthenticateFingerprint(ctx context.Context, in usecase.FingerprintInput) (*usecase.SessionOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/registerVoter", end.RegisterVoter)
	//
	r.POST("/api/sendOTP", end.SendOTP)
	r.POST("/api/verifyOTP", end.VerifyOTP)
	//
	r.POST("/api/registerFingerprint", end.RegisterFingerprint)
	r.POST("/api/authenticateFingerprint", end.AuthenticateFingerprint)
	r.POST("/api/verifyFingerprint", end.AuthenticateFingerprint) // older clients
}
