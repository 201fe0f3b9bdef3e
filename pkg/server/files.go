package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
)

type pathRequest struct {
	Path string `json:"path"`
}

type usageResponse struct {
	Path  string `json:"path,omitempty"`
	Bytes int64  `json:"bytes"`
}

func (srv *Server) listOutputs(ctx echo.Context) error {
	outputs, err := srv.service.ListOutputs(ctx.Request().Context(), ctx.QueryParam("project_id"))
	if err != nil {
		return respondError(ctx, err)
	}
	if outputs == nil {
		outputs = []models.OutputRecord{}
	}
	return ctx.JSON(http.StatusOK, outputs)
}

func (srv *Server) decodePath(ctx echo.Context) (string, error) {
	var req pathRequest
	if err := bindBody(ctx, &req); err != nil {
		return "", err
	}
	if req.Path == "" {
		return "", models.ValidationError{Field: "path", Reason: "required"}
	}
	return req.Path, nil
}

// deleteFile handles DELETE /files. The file goes to the trash.
func (srv *Server) deleteFile(ctx echo.Context) error {
	path, err := srv.decodePath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	log.Info().Str("path", path).Msg("File delete request")
	if err := srv.service.DeleteFile(ctx.Request().Context(), path); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (srv *Server) revealFile(ctx echo.Context) error {
	path, err := srv.decodePath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := srv.service.RevealInFileExplorer(ctx.Request().Context(), path); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// diskUsage handles GET /usage?path=. No path measures the base directory.
func (srv *Server) diskUsage(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	size, err := srv.service.GetDiskUsage(path)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, usageResponse{Path: path, Bytes: size})
}
