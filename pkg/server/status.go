package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// getStatus handles GET /status.
func (srv *Server) getStatus(ctx echo.Context) error {
	status, err := srv.service.Status(ctx.Request().Context())
	if err != nil {
		return respondError(ctx, err)
	}

	uptime := int64(time.Since(srv.started).Seconds())
	status.Version = srv.version
	status.UptimeSeconds = uptime
	status.Uptime = formatUptime(uptime)
	return ctx.JSON(http.StatusOK, status)
}

func formatUptime(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	const hoursInDay = 24
	const minutesInHour = 60
	days := int(duration.Hours()) / hoursInDay
	hours := int(duration.Hours()) % hoursInDay
	minutes := int(duration.Minutes()) % minutesInHour

	switch {
	case days > 0:
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	default:
		return strconv.Itoa(minutes) + "m"
	}
}
