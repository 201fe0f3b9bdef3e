package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
)

type importRequest struct {
	Paths []string `json:"paths"`
}

type importResponse struct {
	Outcomes []models.ImportOutcome `json:"outcomes"`
	Imported int                    `json:"imported"`
}

// importFiles handles POST /import. Per-file failures are reported in the
// outcomes with a 200; only a malformed request is an error.
func (srv *Server) importFiles(ctx echo.Context) error {
	var req importRequest
	if err := bindBody(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	if len(req.Paths) == 0 {
		return respondError(ctx, models.ValidationError{Field: "paths", Reason: "at least one path is required"})
	}

	log.Info().Int("files", len(req.Paths)).Msg("Import request received")

	outcomes := srv.service.Import(ctx.Request().Context(), req.Paths)
	imported := 0
	for _, outcome := range outcomes {
		if outcome.Status == models.ImportStatusImported {
			imported++
		}
	}

	return ctx.JSON(http.StatusOK, importResponse{Outcomes: outcomes, Imported: imported})
}
