package inbound

import (
	"context"

	"github.com/shandysiswandi/evoting/internal/ballot/entity"
	"github.com/shandysiswandi/evoting/internal/ballot/usecase"
	"github.com/shandysiswandi/evoting/internal/pkg/router"
)

type uc interface {
	Candidates(ctx context.Context) ([]entity.Candidate, error)
	Results(ctx context.Context) ([]entity.Candidate, error)
	Voters(ctx context.Context) ([]string, error)
	AddCandidate(ctx context.Context, in usecase.AddCandidateInput) (*usecase.AddCandidateOutput, error)
	Vote(ctx context.Context, in usecase.VoteInput) (*usecase.VoteOutput, error)
}

// Guards holds the per-route middlewares. Nil entries leave a route open.
type Guards struct {
	Admin   router.Middleware
	Session router.Middleware
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, g Guards) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/candidates", end.Candidates)
	r.GET("/api/results", end.Results)
	//
	r.POST("/api/addCandidate", end.AddCandidate, g.Admin)
	r.GET("/api/voters", end.Voters, g.Admin)
	//
	r.POST("/api/vote", end.Vote, g.Session)
}
