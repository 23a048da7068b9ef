package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"student-housing/internal/domain"
	"student-housing/internal/middleware"
	"student-housing/internal/service/media"
)

type MediaHandler struct {
	mediaService media.Service
}

func NewMediaHandler(mediaService media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	if h.mediaService == nil {
		return middleware.NewError(fiber.StatusServiceUnavailable, "Media storage is not configured")
	}
	userID := middleware.GetCurrentUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	if file.Size > domain.MaxMediaSize {
		return middleware.NewError(fiber.StatusRequestEntityTooLarge, "File size must be less than 10MB")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	uploaded, err := h.mediaService.Upload(c.UserContext(), userID, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrFileTooLarge):
			return middleware.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, media.ErrUnsupportedMedia):
			return middleware.BadRequest(err.Error())
		}
		return middleware.Upstream("Failed to store file")
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}
