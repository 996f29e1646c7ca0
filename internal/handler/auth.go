package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devready/code-runner/internal/apperror"
	"github.com/devready/code-runner/internal/auth"
)

// AuthHandler exchanges client credentials for access tokens.
//
// The flow is deliberately minimal machine-to-machine auth: the consuming
// backend holds a client ID and secret, posts them here, and gets back a
// short-lived JWT to present as a bearer token on /api routes.
type AuthHandler struct {
	clients *auth.ClientRegistry
	tokens  *auth.TokenService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(clients *auth.ClientRegistry, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		clients: clients,
		tokens:  tokens,
		logger:  logger,
	}
}

type tokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// HandleToken issues a JWT for valid client credentials.
//
// HTTP: POST /auth/token
// REQUEST BODY: {"clientId": "...", "clientSecret": "..."}
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "request body must be valid JSON"))
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		writeError(w, apperror.ValidationFailed("", "clientId and clientSecret are required"))
		return
	}

	if err := h.clients.Verify(req.ClientID, req.ClientSecret); err != nil {
		h.logger.Warn("client authentication failed",
			slog.String("clientId", req.ClientID),
		)
		writeError(w, apperror.Unauthorized("invalid client credentials"))
		return
	}

	token, err := h.tokens.Generate(req.ClientID)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.logger.Info("token issued", slog.String("clientId", req.ClientID))
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
