package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pagevault/pkg/models"
)

func (srv *Server) listSources(ctx echo.Context) error {
	sources, err := srv.service.ListSources(ctx.Request().Context())
	if err != nil {
		return respondError(ctx, err)
	}
	if sources == nil {
		sources = []models.SourceDocument{}
	}
	return ctx.JSON(http.StatusOK, sources)
}

func (srv *Server) deleteSource(ctx echo.Context) error {
	if err := srv.service.DeleteSource(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// sourceThumbnail serves the cached preview of ?page= (default 0). A miss is
// a 404; previews are rendered at import time only.
func (srv *Server) sourceThumbnail(ctx echo.Context) error {
	page := 0
	if raw := ctx.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return respondError(ctx, models.ValidationError{Field: "page", Reason: "must be a non-negative integer"})
		}
		page = n
	}

	path, ok := srv.service.AssetPath(ctx.Param("id"), page)
	if !ok {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Preview not available"})
	}
	return ctx.File(path)
}
