package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mwielgos/kinoteka/internal/avatar"
	"github.com/mwielgos/kinoteka/internal/users"
)

func (s *Server) updateName(c *gin.Context) {
	var req UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	user, err := s.deps.Users.UpdateName(currentUserID(c), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) updatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	err := s.deps.Users.UpdatePassword(currentUserID(c), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: "current password is incorrect"})
		return
	case errors.Is(err, users.ErrPasswordTooShort), errors.Is(err, users.ErrPasswordUnavailable):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	case err != nil:
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: "avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: "could not read upload"})
		return
	}
	defer file.Close()

	userID := currentUserID(c)
	user, err := s.deps.Users.Get(userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	path, err := s.deps.Avatars.Save(userID, file, user.Image)
	switch {
	case errors.Is(err, avatar.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	case errors.Is(err, avatar.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	case err != nil:
		s.respondError(c, err)
		return
	}

	updated, err := s.deps.Users.SetImage(userID, path)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(updated))
}

func (s *Server) removeAvatar(c *gin.Context) {
	userID := currentUserID(c)
	user, err := s.deps.Users.Get(userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// Locally stored files are deleted; provider-hosted URLs are only
	// dereferenced.
	if user.Image != nil && strings.HasPrefix(*user.Image, avatar.PublicPrefix+"/") {
		s.deps.Avatars.Remove(*user.Image)
	}

	updated, err := s.deps.Users.ClearImage(userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(updated))
}
