package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autolib/autolib/internal/entities"
)

// BookLister provides read access to the catalog.
type BookLister interface {
	GetAllBooks() ([]entities.Book, error)
	GetBooksBorrowedBy(userID uint) ([]entities.Book, error)
}

// BooksController handles catalog read endpoints.
type BooksController struct {
	store BookLister
}

// NewBooksController creates a new BooksController.
func NewBooksController(store BookLister) *BooksController {
	return &BooksController{store: store}
}

// GetAllBooks returns the full catalog.
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	books, err := bc.store.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetUserBooks returns the books currently on loan to a user.
func (bc *BooksController) GetUserBooks(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	books, err := bc.store.GetBooksBorrowedBy(userID)
	if err != nil {
		respondInternalError(c, err, "list user books")
		return
	}
	c.JSON(http.StatusOK, books)
}
