package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

type createBookRequest struct {
	Title       string `json:"title" binding:"required"`
	ISBN        string `json:"isbn" binding:"required"`
	TotalCopies int    `json:"totalCopies" binding:"required,gte=1"`
	CategoryID  *uint  `json:"categoryId"`
	PublisherID *uint  `json:"publisherId"`
	AuthorIDs   []uint `json:"authorIds"`
}

func (h *Handler) createBook(c *gin.Context) {
	var req createBookRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.catalog.CreateBook(c.Request.Context(), service.CreateBookInput{
		Title:       req.Title,
		ISBN:        req.ISBN,
		TotalCopies: req.TotalCopies,
		CategoryID:  req.CategoryID,
		PublisherID: req.PublisherID,
		AuthorIDs:   req.AuthorIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *Handler) getBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) listBooks(c *gin.Context) {
	page, limit := parsePagination(c)
	books, total, err := h.catalog.ListBooks(c.Request.Context(), repository.BookFilter{
		Title:      c.Query("title"),
		CategoryID: parseQueryUint(c, "categoryId"),
		Status:     models.BookStatus(c.Query("status")),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": books, "meta": listMeta(total, page, limit)})
}

type updateBookRequest struct {
	Title       *string            `json:"title"`
	TotalCopies *int               `json:"totalCopies"`
	CategoryID  *uint              `json:"categoryId"`
	PublisherID *uint              `json:"publisherId"`
	Status      *models.BookStatus `json:"status"`
}

func (h *Handler) updateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateBookRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.catalog.UpdateBook(c.Request.Context(), id, service.UpdateBookInput{
		Title:       req.Title,
		TotalCopies: req.TotalCopies,
		CategoryID:  req.CategoryID,
		PublisherID: req.PublisherID,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) deleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createAuthorRequest struct {
	Name      string `json:"name" binding:"required"`
	Biography string `json:"biography"`
}

func (h *Handler) createAuthor(c *gin.Context) {
	var req createAuthorRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author := models.Author{Name: req.Name, Biography: req.Biography}
	if err := h.catalog.CreateAuthor(c.Request.Context(), &author); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *Handler) listAuthors(c *gin.Context) {
	authors, err := h.catalog.ListAuthors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

type createPublisherRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

func (h *Handler) createPublisher(c *gin.Context) {
	var req createPublisherRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	publisher := models.Publisher{Name: req.Name, Address: req.Address}
	if err := h.catalog.CreatePublisher(c.Request.Context(), &publisher); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, publisher)
}

func (h *Handler) listPublishers(c *gin.Context) {
	publishers, err := h.catalog.ListPublishers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publishers)
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
