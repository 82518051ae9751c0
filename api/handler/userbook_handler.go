package handler

import (
	"errors"
	"net/http"

	"booktrack/api/middleware"
	"booktrack/internal/dto"
	"booktrack/internal/entity"
	"booktrack/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserBookHandler struct {
	Service  *service.UserBookService
	Validate *validator.Validate
}

func NewUserBookHandler(svc *service.UserBookService, validate *validator.Validate) *UserBookHandler {
	return &UserBookHandler{Service: svc, Validate: validate}
}

func (h *UserBookHandler) Add(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.UserBookRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid book id"))
	}
	input := service.UserBookInput{
		BookID:   bookID,
		Status:   entity.ReadingStatus(req.Status),
		Progress: req.Progress,
		Rating:   req.Rating,
		Notes:    req.Notes,
	}
	entry, err := h.Service.Add(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.UserBookResponseFromEntity(entry))
}

func (h *UserBookHandler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	entries, err := h.Service.List(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserBookResponsesFromEntities(entries))
}

func (h *UserBookHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid entry id"))
	}
	entry, err := h.Service.Get(c.Request().Context(), userID, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserBookResponseFromEntity(entry))
}

func (h *UserBookHandler) Summary(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	summary, err := h.Service.Summary(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *UserBookHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid entry id"))
	}
	var req dto.UserBookUpdateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.UserBookUpdateInput{
		Progress:   req.Progress,
		Rating:     req.Rating,
		Notes:      req.Notes,
		StartedAt:  req.StartedAt,
		FinishedAt: req.FinishedAt,
	}
	if req.Status != nil {
		status := entity.ReadingStatus(*req.Status)
		input.Status = &status
	}
	entry, err := h.Service.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserBookResponseFromEntity(entry))
}

func (h *UserBookHandler) Remove(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid entry id"))
	}
	if err := h.Service.Remove(c.Request().Context(), userID, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "entry removed"})
}
