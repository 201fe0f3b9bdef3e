package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pagevault/pkg/models"
)

type createProjectRequest struct {
	Name string `json:"name"`
}

type stateRequest struct {
	State models.PageAssets `json:"state"`
}

type exportRequest struct {
	Name  string             `json:"name"`
	State *models.PageAssets `json:"state"`
}

func (srv *Server) createProject(ctx echo.Context) error {
	var req createProjectRequest
	if err := bindBody(ctx, &req); err != nil {
		return respondError(ctx, err)
	}

	project, err := srv.service.CreateProject(ctx.Request().Context(), req.Name)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, project)
}

func (srv *Server) listProjects(ctx echo.Context) error {
	projects, err := srv.service.ListProjects(ctx.Request().Context())
	if err != nil {
		return respondError(ctx, err)
	}
	if projects == nil {
		projects = []models.ProjectState{}
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (srv *Server) getProject(ctx echo.Context) error {
	project, err := srv.service.GetProject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, project)
}

func (srv *Server) deleteProject(ctx echo.Context) error {
	if err := srv.service.DeleteProject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// updateProjectState handles PUT /projects/{id}/state. The list replaces the
// stored one as a whole.
func (srv *Server) updateProjectState(ctx echo.Context) error {
	var req stateRequest
	if err := bindBody(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	if req.State == nil {
		return respondError(ctx, models.ValidationError{Field: "state", Reason: "required"})
	}

	project, err := srv.service.UpdateProjectState(ctx.Request().Context(), ctx.Param("id"), req.State)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, project)
}

// exportProject handles POST /projects/{id}/export. Without "state" the
// stored page list is exported.
func (srv *Server) exportProject(ctx echo.Context) error {
	var req exportRequest
	if err := bindBody(ctx, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return respondError(ctx, err)
	}

	var assets models.PageAssets
	if req.State != nil {
		assets = *req.State
		if assets == nil {
			assets = models.PageAssets{}
		}
	}

	output, err := srv.service.ExportProject(ctx.Request().Context(), ctx.Param("id"), req.Name, assets)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, output)
}
