package api

import (
	"errors"

	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"
	"github.com/go-fuego/fuego/param"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/internal/query"
)

// NewsResources groups the handlers of the news read surface.
type NewsResources struct {
	Svc *query.Service
}

// NewsList is the live-read response shape.
type NewsList struct {
	News []domain.Article `json:"news"`
}

// GetLatest serves the live top-headlines read. A provider quota signal is
// shaped into a single degraded article with status 200.
func (rs NewsResources) GetLatest(c fuego.ContextNoBody) (NewsList, error) {
	page, err := rs.Svc.Latest(c.Context())
	if err != nil {
		return NewsList{}, err
	}
	return NewsList{News: page.News}, nil
}

// GetByCategory serves one stored page for the category, newest first, with
// a live fallback when the store has nothing for the page.
func (rs NewsResources) GetByCategory(c fuego.ContextNoBody) (query.Page, error) {
	category := c.PathParam("category")
	pageNum := c.QueryParamInt("page")

	page, err := rs.Svc.ByCategory(c.Context(), category, pageNum)
	switch {
	case errors.Is(err, query.ErrUnknownCategory) || errors.Is(err, query.ErrInvalidPage):
		return query.Page{}, fuego.BadRequestError{Title: "Invalid request", Detail: err.Error()}
	case errors.Is(err, query.ErrNoArticles):
		return query.Page{}, fuego.NotFoundError{Title: "No news found", Detail: "No news found for category: " + category}
	case err != nil:
		return query.Page{}, err
	}
	return page, nil
}

// Routes registers the news routes.
func (rs NewsResources) Routes(s *fuego.Server) {
	newsGroup := fuego.Group(s, "/news")

	fuego.Get(newsGroup, "/", rs.GetLatest,
		option.Description("Get the latest headlines"),
	)

	fuego.Get(newsGroup, "/{category}", rs.GetByCategory,
		option.Description("Get stored news for a category, newest first"),
		option.Query("page", "Page number", param.Default(1)),
	)
}
