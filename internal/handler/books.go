package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/billeasy/backend/internal/model"
	"github.com/billeasy/backend/internal/service"
)

type BookHandler struct {
	svc *service.BookService
}

func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// AddBook godoc
// @Summary Add a new book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateBookRequest true "Book payload"
// @Success 201 {object} model.CreateBookResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /books [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, author, and genre are required"})
		return
	}

	book, err := h.svc.AddBook(c.Request.Context(), req)
	if err != nil {
		writeBookError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.CreateBookResponse{
		Message: "New Book Added Successfully",
		Data:    book,
	})
}

// GetBooks godoc
// @Summary Get list of books
// @Description Case-insensitive substring filters with pagination.
// @Tags books
// @Produce json
// @Param title query string false "Filter by title"
// @Param author query string false "Filter by author"
// @Param genre query string false "Filter by genre"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {array} model.Book
// @Failure 404 {object} model.MessageResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /books [get]
func (h *BookHandler) GetBooks(c *gin.Context) {
	filter := model.BookFilter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}

	books, err := h.svc.GetBooks(c.Request.Context(), filter)
	if err != nil {
		writeBookError(c, err)
		return
	}

	if len(books) == 0 {
		c.JSON(http.StatusNotFound, model.MessageResponse{Message: "No books found matching the criteria."})
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBookByID godoc
// @Summary Get book details
// @Description Includes a page of reviews and the average rating.
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Param page query int false "Review page number" default(1)
// @Param limit query int false "Reviews per page" default(5)
// @Success 200 {object} model.BookDetailResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	detail, err := h.svc.GetBookDetail(c.Request.Context(), bookID, queryInt(c, "page", 1), queryInt(c, "limit", 5))
	if err != nil {
		writeBookError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetSimilarBooks godoc
// @Summary Get similar books
// @Description Embedding-based nearest neighbors; requires AI_API_KEY.
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Param limit query int false "Max results" default(5)
// @Success 200 {array} model.SimilarBook
// @Failure 404 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /books/{id}/similar [get]
func (h *BookHandler) GetSimilarBooks(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	books, err := h.svc.GetSimilarBooks(c.Request.Context(), bookID, queryInt(c, "limit", 5))
	if err != nil {
		writeBookError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func writeBookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, author, and genre are required"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Similar books are not enabled"})
	default:
		log.Printf("Book error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
