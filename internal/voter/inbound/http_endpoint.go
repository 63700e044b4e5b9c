package inbound

import (
	"github.com/shandysiswandi/evoting/internal/pkg/router"
	"github.com/shandysiswandi/evoting/internal/voter/usecase"
)

// HTTPEndpoint exposes the voter registration and authentication handlers.
type HTTPEndpoint struct {
	uc uc
}

// RegisterVoter binds an identifier to a voting address and emails an OTP.
func (h *HTTPEndpoint) RegisterVoter(r *router.Request) (any, error) {
	var req RegisterVoterRequest
	if err := r.DecodeBody(&req, router.AllowUnknownFields()); err != nil {
		return nil, err
	}

	resp, err := h.uc.RegisterVoter(r.Context(), usecase.RegisterVoterInput{
		VoterAddress: req.VoterAddress,
		Identifier:   req.identifier(),
		Email:        req.Email,
	})
	if err != nil {
		return nil, err
	}

	return RegisterVoterResponse{TxHash: resp.TxHash}, nil
}

func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req, router.AllowUnknownFields()); err != nil {
		return nil, err
	}

	if err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		Email:      req.Email,
		Identifier: req.identifier(),
	}); err != nil {
		return nil, err
	}

	return SendOTPResponse{}, nil
}

// VerifyOTP consumes the emailed code and returns a session token.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req, router.AllowUnknownFields()); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		Code:  req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{VoterAddress: resp.VoterAddress, Token: resp.Token}, nil
}

func (h *HTTPEndpoint) RegisterFingerprint(r *router.Request) (any, error) {
	var req FingerprintRequest
	if err := r.DecodeBody(&req, router.AllowUnknownFields()); err != nil {
		return nil, err
	}

	if err := h.uc.RegisterFingerprint(r.Context(), usecase.FingerprintInput{
		VoterAddress:    req.address(),
		FingerprintData: req.FingerprintData,
	}); err != nil {
		return nil, err
	}

	return RegisterFingerprintResponse{}, nil
}

func (h *HTTPEndpoint) AuthenticateFingerprint(r *router.Request) (any, error) {
	var req FingerprintRequest
	if err := r.DecodeBody(&req, router.AllowUnknownFields()); err != nil {
		return nil, err
	}

	resp, err := h.uc.AuthenticateFingerprint(r.Context(), usecase.FingerprintInput{
		VoterAddress:    req.address(),
		FingerprintData: req.FingerprintData,
	})
	if err != nil {
		return nil, err
	}

	return AuthenticateFingerprintResponse{VoterAddress: resp.VoterAddress, Token: resp.Token}, nil
}
