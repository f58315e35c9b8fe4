package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwielgos/kinoteka/internal/models"
	"github.com/mwielgos/kinoteka/internal/users"
)

// oauthStateCookie holds the nonce for one Google sign-in attempt.
const oauthStateCookie = "kinoteka_oauth_state"

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	user, err := s.deps.Users.Register(req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Conflict", Message: err.Error()})
		return
	case errors.Is(err, users.ErrEmailRequired), errors.Is(err, users.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	case err != nil:
		s.respondError(c, err)
		return
	}

	token, err := s.startSession(c, user.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	user, err := s.deps.Users.Authenticate(req.Email, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "invalid email or password"})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.startSession(c, user.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (s *Server) session(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, SessionResponse{User: nil})
		return
	}

	user, err := s.deps.Users.Get(userID)
	if err != nil {
		// Token refers to a deleted account; treat as anonymous.
		c.JSON(http.StatusOK, SessionResponse{User: nil})
		return
	}

	response := toUserResponse(user)
	c.JSON(http.StatusOK, SessionResponse{User: &response})
}

func (s *Server) googleRedirect(c *gin.Context) {
	if s.deps.Google == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}

	state := s.deps.Google.NewState()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, s.deps.Google.AuthURL(state))
}

func (s *Server) googleCallback(c *gin.Context) {
	if s.deps.Google == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}

	expectedState, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	identity, err := s.deps.Google.Exchange(c.Request.Context(), expectedState, c.Query("state"), c.Query("code"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "sign-in failed"})
		return
	}

	user, err := s.deps.Users.FindOrCreateOAuth(models.ProviderGoogle, identity.Email, identity.Name, identity.Picture)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if _, err := s.startSession(c, user.ID); err != nil {
		s.respondError(c, err)
		return
	}

	redirect := s.deps.Config.Server.BaseURL
	if redirect == "" {
		redirect = "/"
	}
	c.Redirect(http.StatusFound, redirect)
}

// startSession issues a token and sets the session cookie.
func (s *Server) startSession(c *gin.Context, userID string) (string, error) {
	token, err := s.deps.Tokens.Issue(userID)
	if err != nil {
		return "", err
	}
	maxAge := int(s.deps.Tokens.MaxAge().Seconds())
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
	return token, nil
}
