package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// parseRange reads the optional start/end query parameters. Dates are
// calendar days (2006-01-02) in the report location. RFC 3339 is accepted too,
// but only its calendar date is kept.
func parseRange(c *gin.Context, loc *time.Location) (*time.Time, *time.Time, error) {
	start, err := parseDay(c.Query("start"), loc)
	if err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}
	end, err := parseDay(c.Query("end"), loc)
	if err != nil {
		return nil, nil, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

func parseDay(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return &day, nil
}

func salesReportHandler(reports reportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := parseRange(c, reports.Location())
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		r, err := reports.Report(c.Request.Context(), start, end)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func dashboardHandler(reports reportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := parseRange(c, reports.Location())
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		d, err := reports.Dashboard(c.Request.Context(), start, end)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
