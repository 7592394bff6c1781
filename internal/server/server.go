/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
dashboard store, the session cookie and the notification hub.
*/
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"AssistantDashboard_V0.1/internal/config"
	"AssistantDashboard_V0.1/internal/features"
	"AssistantDashboard_V0.1/internal/utility"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	sessionName       = "assistant_dashboard"
	sessionDashboardK = "dashboard_id"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// model is reported by the health endpoint.
	model string

	// dashboards holds one in-memory dashboard per browser session.
	dashboards *features.Store

	// cookies signs the session cookie that carries the dashboard id.
	cookies *sessions.CookieStore

	// hub pushes generation results to open websockets.
	hub *utility.Hub

	startTime time.Time
}

// Notification is the websocket message sent when a generation finishes.
type Notification struct {
	Type    string `json:"type"`
	Feature string `json:"feature"`
	Status  string `json:"status"`
}

// New builds the Server and its dependencies.
func New(cfg config.Config, gen features.Generator, model string) (*Server, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		var err error
		secret, err = utility.GenerateSecureToken(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		log.Warn().Msg("SESSION_SECRET is not set; dashboards will not survive a restart of this process")
	}

	cookies := sessions.NewCookieStore([]byte(secret))
	cookies.Options = &sessions.Options{
		Path: "/",
		// Session cookie: state lives as long as the browser session at most.
		MaxAge:   0,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		port:      cfg.Port,
		model:     model,
		cookies:   cookies,
		hub:       utility.NewHub(),
		startTime: time.Now(),
	}

	store, err := features.NewStore(cfg.DashboardCacheSize, gen, s.notifierFor)
	if err != nil {
		return nil, err
	}
	s.dashboards = store

	return s, nil
}

// NewServer initializes a new Server instance and returns a configured *http.Server.
// It sets production-ready network timeouts.
func NewServer(cfg config.Config, gen features.Generator, model string) (*http.Server, error) {
	newApp, err := New(cfg, gen, model)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,        // Maximum duration for reading the entire request.
		WriteTimeout: 30 * time.Second,        // Maximum duration before timing out writes of the response.
	}
	server.RegisterOnShutdown(newApp.hub.CloseAll)

	return server, nil
}

// notifierFor broadcasts one GENERATION_COMPLETE message per finished call.
func (s *Server) notifierFor(dashboardID string) features.Notifier {
	return features.NotifierFunc(func(feature features.Feature, err error) {
		status := "success"
		if err != nil {
			status = "error"
		}

		msg, _ := json.Marshal(Notification{Type: "GENERATION_COMPLETE", Feature: string(feature), Status: status})
		sent := s.hub.Broadcast(dashboardID, msg)
		log.Debug().Str("dashboard_id", dashboardID).Str("feature", string(feature)).Int("clients", sent).Msg("Generation notification sent")
	})
}
