package api

import (
	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"

	"github.com/newsai-hq/newsai-backend/internal/query"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewServer configures the HTTP API.
func NewServer(addr string, svc *query.Service) *fuego.Server {
	s := fuego.NewServer(fuego.WithAddr(addr))

	fuego.Get(s, "/health", health,
		option.Description("Liveness probe"),
	)

	newsResources := NewsResources{Svc: svc}
	newsResources.Routes(s)

	return s
}

func health(_ fuego.ContextNoBody) (HealthResponse, error) {
	return HealthResponse{Status: "ok"}, nil
}
