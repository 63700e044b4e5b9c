package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/evoting/internal/ballot/entity"
	"github.com/shandysiswandi/evoting/internal/ballot/usecase"
	"github.com/shandysiswandi/evoting/internal/pkg/router"
)

// HTTPEndpoint exposes the ballot proxy handlers.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Candidates(r *router.Request) (any, error) {
	cs, err := h.uc.Candidates(r.Context())
	if err != nil {
		return nil, err
	}

	return CandidatesResponse{Candidates: lo.Map(cs, toCandidateResponse)}, nil
}

func (h *HTTPEndpoint) Results(r *router.Request) (any, error) {
	cs, err := h.uc.Results(r.Context())
	if err != nil {
		return nil, err
	}

	return ResultsResponse{Results: lo.Map(cs, toCandidateResponse)}, nil
}

// Voters lists every address authorised on the contract.
func (h *HTTPEndpoint) Voters(r *router.Request) (any, error) {
	voters, err := h.uc.Voters(r.Context())
	if err != nil {
		return nil, err
	}

	return VotersResponse{Voters: voters}, nil
}

func (h *HTTPEndpoint) AddCandidate(r *router.Request) (any, error) {
	var req AddCandidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.AddCandidate(r.Context(), usecase.AddCandidateInput{Name: req.Name})
	if err != nil {
		return nil, err
	}

	return AddCandidateResponse{TxHash: resp.TxHash}, nil
}

// Vote relays a ballot and answers once the transaction is mined.
func (h *HTTPEndpoint) Vote(r *router.Request) (any, error) {
	var req VoteRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Vote(r.Context(), usecase.VoteInput{
		VoterAddress: req.VoterAddress,
		CandidateID:  req.CandidateID,
	})
	if err != nil {
		return nil, err
	}

	return VoteResponse{TxHash: resp.TxHash}, nil
}

func toCandidateResponse(c entity.Candidate, _ int) CandidateResponse {
	return CandidateResponse{ID: c.ID, Name: c.Name, VoteCount: c.VoteCount}
}
