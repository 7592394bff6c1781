package server

import (
	"errors"
	"net/http"

	"AssistantDashboard_V0.1/internal/features"
	"AssistantDashboard_V0.1/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/health", s.healthHandler)

	// Every /api route runs against the caller's dashboard.
	api := e.Group("/api")
	api.Use(s.DashboardMiddleware)

	api.GET("/dashboard", s.GetDashboardHandler)
	api.GET("/ws", s.DashboardSocketHandler)

	// Finance
	api.GET("/finance", s.GetFinanceHandler)
	api.POST("/finance/expenses", s.AddExpenseHandler)
	api.DELETE("/finance/expenses/:id", s.RemoveExpenseHandler)
	api.POST("/finance/investments", s.AddInvestmentHandler)
	api.DELETE("/finance/investments/:id", s.RemoveInvestmentHandler)
	api.GET("/finance/breakdown", s.GetBreakdownHandler)
	api.POST("/finance/advice", s.RequestAdviceHandler)

	// Recipes
	api.GET("/recipes", s.GetRecipesHandler)
	api.POST("/recipes/generate", s.GenerateRecipesHandler)

	// Fitness
	api.GET("/fitness", s.GetFitnessHandler)
	api.PUT("/fitness/profile", s.UpdateProfileHandler)
	api.PUT("/fitness/progress", s.UpdateProgressHandler)
	api.POST("/fitness/plan", s.GeneratePlanHandler)

	// Goals
	api.GET("/goals", s.GetGoalsHandler)
	api.POST("/goals", s.AddGoalHandler)
	api.DELETE("/goals/:id", s.RemoveGoalHandler)
	api.POST("/goals/:id/subtasks/:index/toggle", s.ToggleSubTaskHandler)

	return e
}

// LoggerMiddleware tags every request with a request id and puts a child
// logger in both the echo context and the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("ip", utility.GetRealIP(c)).
			Logger()

		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}

// DashboardMiddleware resolves the caller's dashboard from the session cookie,
// creating a new one when the cookie is missing, invalid or expired.
func (s *Server) DashboardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := utility.LoggerFromContext(c)

		// A cookie signed with another secret yields an error and a fresh session.
		session, err := s.cookies.Get(c.Request(), sessionName)
		if err != nil {
			logger.Debug().Err(err).Msg("Discarding unreadable session cookie")
		}

		id, _ := session.Values[sessionDashboardK].(string)
		dashboard, created := s.dashboards.GetOrCreate(id)
		if created {
			session.Values[sessionDashboardK] = dashboard.ID
			if err := session.Save(c.Request(), c.Response()); err != nil {
				logger.Error().Err(err).Msg("Failed to save session")
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start session"})
			}
		}

		c.Set("dashboard", dashboard)
		return next(c)
	}
}

func dashboardFromContext(c echo.Context) *features.Dashboard {
	d, _ := c.Get("dashboard").(*features.Dashboard)
	return d
}

// respondError maps controller errors onto HTTP status codes.
func respondError(c echo.Context, err error) error {
	var vErr *features.InputValidationError
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, features.ErrGenerationInFlight):
		return c.JSON(http.StatusConflict, map[string]string{"error": "A request is already in progress. Please wait."})
	case errors.Is(err, features.ErrSubTaskIndexOutOfRange):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sub-task index out of range"})
	case errors.Is(err, features.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	utility.LoggerFromContext(c).Error().Err(err).Msg("Unhandled error")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

/* ====================================================================
                   		Dashboard Handlers
==================================================================== */

func (s *Server) GetDashboardHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardFromContext(c).Snapshot())
}

// DashboardSocketHandler keeps a websocket open for completion notifications.
func (s *Server) DashboardSocketHandler(c echo.Context) error {
	d := dashboardFromContext(c)

	// 1. Upgrade HTTP to WebSocket. The 101 reply must carry the session
	// cookie DashboardMiddleware may have just set.
	ws, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), c.Response().Header())
	if err != nil {
		return err
	}

	// 2. Register Client
	s.hub.Register(d.ID, ws)
	defer s.hub.Unregister(d.ID, ws)

	// 3. Keep connection alive (Read Loop)
	// We don't expect messages FROM the client, but we must read to keep socket open
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}
