// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sirupsen/logrus"

	"dietprogram/internal/app"
)

const sessionCookie = "session"

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.svc.Auth.SessionTTL() / time.Second),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg app.Registration
	if err := parseJSON(r, &reg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, token, err := s.svc.Auth.Register(r.Context(), reg, r.UserAgent(), clientIP(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setSessionCookie(w, r, token)
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, token, err := s.svc.Auth.Login(r.Context(), req.Username, req.Password, r.UserAgent(), clientIP(r))
	if errors.Is(err, app.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setSessionCookie(w, r, token)
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		_ = s.svc.Auth.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled": s.oidcConfig.Enabled,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "sso disabled"})
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidcConfig.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "sso disabled"})
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || r.URL.Query().Get("state") != state.Value {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid state"})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	log := s.log.WithField("request_id", requestIDFromContext(r.Context()))

	token, err := s.oidcConfig.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.WithError(err).Warn("sso token exchange failed")
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "failed to exchange token"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "no id_token"})
		return
	}

	idToken, err := s.oidcConfig.Provider.Verifier(&oidc.Config{ClientID: s.oidcConfig.OAuth2Config.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		log.WithError(err).Warn("sso id token rejected")
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "failed to verify token"})
		return
	}

	var claims struct {
		Email string `json:"email"`
		Sub   string `json:"sub"`
	}
	if err = idToken.Claims(&claims); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "failed to parse claims"})
		return
	}

	login := claims.Email
	if login == "" {
		login = claims.Sub
	}

	sessionToken, err := s.svc.Auth.LoginWithUser(r.Context(), login, r.UserAgent(), clientIP(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	log.WithFields(logrus.Fields{"login": login}).Info("sso login")

	s.setSessionCookie(w, r, sessionToken)
	http.Redirect(w, r, "/", http.StatusFound)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
