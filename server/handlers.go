package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/safedep/dry/log"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/session"
)

// param reads a request parameter from the query string or form body.
func param(c echo.Context, name string) string {
	return strings.TrimSpace(c.FormValue(name))
}

// fail writes an expected failure as a 400 plain-text body. Anything else
// is logged and reported as an internal error.
func fail(c echo.Context, err error) error {
	if apperr.IsExpected(err) {
		return c.String(http.StatusBadRequest, err.Error())
	}

	log.Errorf("request %s %s failed: %v", c.Request().Method, c.Path(), err)
	return c.String(http.StatusInternalServerError, "Internal server error")
}

func badRequest(c echo.Context, message string) error {
	return c.String(http.StatusBadRequest, message)
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) register(c echo.Context) error {
	userID := param(c, "userId")
	userName := param(c, "userName")
	if userID == "" || userName == "" {
		return badRequest(c, apperr.MsgMissingParameters)
	}

	if err := s.tracker.Register(c.Request().Context(), userID, userName); err != nil {
		return fail(c, err)
	}

	return c.String(http.StatusOK, "User registered: true")
}

func (s *Server) recordSession(c echo.Context) error {
	candidate := session.Candidate{
		UserID:     param(c, "userId"),
		LoginTime:  param(c, "loginTime"),
		LogoutTime: param(c, "logoutTime"),
	}
	if candidate.UserID == "" || candidate.LoginTime == "" || candidate.LogoutTime == "" {
		return badRequest(c, apperr.MsgMissingParameters)
	}

	if _, err := s.tracker.RecordSession(c.Request().Context(), candidate); err != nil {
		return fail(c, err)
	}

	return c.String(http.StatusOK, "Session recorded")
}

func (s *Server) totalActivity(c echo.Context) error {
	userID := param(c, "userId")
	if userID == "" {
		return badRequest(c, apperr.MsgMissingUserID)
	}

	minutes, err := s.tracker.TotalActivityTime(c.Request().Context(), userID)
	if err != nil {
		// Unknown users are reported the same way as a missing ID.
		if apperr.KindOf(err) == apperr.KindUserNotFound {
			return badRequest(c, apperr.MsgMissingUserID)
		}
		return fail(c, err)
	}

	return c.String(http.StatusOK, "Total activity: "+strconv.FormatInt(minutes, 10)+" minutes")
}

func (s *Server) inactiveUsers(c echo.Context) error {
	raw := param(c, "days")
	if raw == "" {
		return badRequest(c, apperr.MsgMissingDays)
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return fail(c, apperr.InvalidNumberFormat(err))
	}

	inactive, err := s.tracker.InactiveUsers(c.Request().Context(), days, time.Time{})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, inactive)
}

func (s *Server) monthlyActivity(c echo.Context) error {
	userID := param(c, "userId")
	month := param(c, "month")
	if userID == "" || month == "" {
		return badRequest(c, apperr.MsgMissingParameters)
	}

	daily, err := s.tracker.MonthlyActivity(c.Request().Context(), userID, month)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindUserNotFound, apperr.KindNoSessionsFound:
			return badRequest(c, apperr.InvalidData(apperr.NoSessionsFound()))
		default:
			return fail(c, err)
		}
	}

	return c.JSON(http.StatusOK, daily)
}

func (s *Server) userStatus(c echo.Context) error {
	userID := param(c, "userId")
	if userID == "" {
		return badRequest(c, apperr.MsgMissingUserID)
	}

	status, err := s.tracker.UserStatus(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.String(http.StatusOK, status.String())
}

func (s *Server) lastSession(c echo.Context) error {
	userID := param(c, "userId")
	if userID == "" {
		return badRequest(c, apperr.MsgMissingUserID)
	}

	date, ok, err := s.tracker.LastSessionDate(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if !ok {
		return fail(c, apperr.NoSessionsFound())
	}

	return c.String(http.StatusOK, date)
}

func (s *Server) stats(c echo.Context) error {
	userID := param(c, "userId")
	if userID == "" {
		return badRequest(c, apperr.MsgMissingUserID)
	}

	summary, err := s.tracker.Summary(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}
