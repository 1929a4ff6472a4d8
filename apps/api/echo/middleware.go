package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/duka/core/ebook"
)

const contextObjectKey = "object"

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// submitterOrAdminMiddleware loads the ebook at ":id" into the context.
// Collaborators only see their own submissions: anything else is reported as not found.
func submitterOrAdminMiddleware(svc ebook.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			book, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding ebook by ID")
			}
			if !(claims.IsAdmin || book.SubmittedBy == claims.Subject) {
				return errHttpNotFound
			}

			ctx.Set(contextObjectKey, book)
			return next(ctx)
		}
	}
}
