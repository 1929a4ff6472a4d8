package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/duka/core/ebook"
)

var errEbookNotFoundInCtx = errors.New("ebook object not found in echo.Context")

type ebookApi struct {
	svc ebook.ServiceInterface
}

func registerEbookAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc ebook.ServiceInterface) {
	api := ebookApi{svc: svc}

	eg := g.Group("/ebooks")

	// un-authed endpoints
	eg.GET("/academic-areas", api.queryAcademicAreas)

	// authed endpoints
	ag := eg.Group("", jwt)
	ag.POST("", api.create)
	ag.POST("/validate", api.validate)
	ag.GET("", api.query, adminMiddleware())
	ag.DELETE("", api.destroyMultiple, adminMiddleware())

	// detail endpoints
	dg := ag.Group("/:id", submitterOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy, adminMiddleware())
}

// Handlers

func (api *ebookApi) queryAcademicAreas(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ebook.Areas)
}

func (api *ebookApi) validate(ctx echo.Context) error {
	raw, err := bindRawSubmission(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.Validator().SubmitRaw(raw)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *ebookApi) create(ctx echo.Context) error {
	raw, err := bindRawSubmission(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	book, err := api.svc.CreateRaw(ctx.Request().Context(), actor, raw)
	if err != nil {
		return errors.Wrap(err, "creating ebook")
	}
	return ctx.JSON(http.StatusCreated, book)
}

func (api *ebookApi) query(ctx echo.Context) error {
	filter := bindQueryFilter(ctx)
	ordering := new(Ordering)
	ordering.Bind(ctx)

	books, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying ebooks")
	}
	if books == nil {
		books = []ebook.Ebook{}
	}
	return ctx.JSON(http.StatusOK, books)
}

func (api *ebookApi) retrieve(ctx echo.Context) error {
	book, ok := ctx.Get(contextObjectKey).(ebook.Ebook)
	if !ok {
		return errors.Wrap(errEbookNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, book)
}

func (api *ebookApi) destroy(ctx echo.Context) error {
	book, ok := ctx.Get(contextObjectKey).(ebook.Ebook)
	if !ok {
		return errors.Wrap(errEbookNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), book.ID); err != nil {
		return errors.Wrap(err, "deleting ebook")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *ebookApi) destroyMultiple(ctx echo.Context) error {
	if ids := bindIDs(ctx); len(ids) > 0 {
		if err := api.svc.Delete(ctx.Request().Context(), ids...); err != nil {
			return errors.Wrap(err, "deleting ebooks")
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}
