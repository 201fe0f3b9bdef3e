package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"pagevault/pkg/log"
)

//go:embed web/swagger-ui.html web/openapi.yml
var webFS embed.FS

var swaggerTemplate = template.Must(template.ParseFS(webFS, "web/swagger-ui.html"))

func (srv *Server) serveSwaggerUI(ctx echo.Context) error {
	data := struct {
		Title       string
		Version     string
		SwaggerPath string
	}{
		Title:       "PageVault API",
		Version:     srv.version,
		SwaggerPath: "/openapi.yml",
	}

	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(http.StatusOK)
	if err := swaggerTemplate.Execute(ctx.Response().Writer, data); err != nil {
		log.Error().Err(err).Msg("Failed to render API docs")
		return fmt.Errorf("render api docs: %w", err)
	}
	return nil
}

func (srv *Server) serveSwaggerSpec(ctx echo.Context) error {
	spec, err := webFS.ReadFile("web/openapi.yml")
	if err != nil {
		log.Error().Err(err).Msg("Failed to read API spec")
		return ctx.String(http.StatusInternalServerError, "Failed to load API spec")
	}
	return ctx.Blob(http.StatusOK, "application/yaml", spec)
}
