package handler

import (
	"errors"
	"net/http"

	"booktrack/api/middleware"
	"booktrack/internal/dto"
	"booktrack/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookHandler struct {
	Service  *service.BookService
	Validate *validator.Validate
}

func NewBookHandler(svc *service.BookService, validate *validator.Validate) *BookHandler {
	return &BookHandler{Service: svc, Validate: validate}
}

func (h *BookHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.BookRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	input := service.BookInput{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		Pages:         req.Pages,
		PublishedYear: req.PublishedYear,
		CoverImage:    req.CoverImage,
	}
	book, err := h.Service.Create(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.BookResponseFromEntity(book))
}

func (h *BookHandler) List(c echo.Context) error {
	books, err := h.Service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.BookResponsesFromEntities(books))
}

func (h *BookHandler) ListMine(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	books, err := h.Service.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MyBooksResponse{
		Count: len(books),
		Books: dto.BookResponsesFromEntities(books),
	})
}

func (h *BookHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid book id"))
	}
	book, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.BookResponseFromEntity(book))
}

func (h *BookHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid book id"))
	}
	var req dto.BookUpdateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.BookUpdateInput{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		Pages:         req.Pages,
		PublishedYear: req.PublishedYear,
		CoverImage:    req.CoverImage,
	}
	book, err := h.Service.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.BookResponseFromEntity(book))
}

func (h *BookHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid book id"))
	}
	if err := h.Service.Delete(c.Request().Context(), userID, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "book deleted"})
}
