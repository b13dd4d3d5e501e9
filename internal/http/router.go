package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autolib/autolib/internal/auth"
	"github.com/autolib/autolib/internal/database"
	"github.com/autolib/autolib/internal/loans"
)

// Greeting is the plain-text body served at the root path.
const Greeting = "Welcome to the AutoLib"

// RouterConfig carries all dependencies for route construction.
type RouterConfig struct {
	Database    *database.Database
	AuthService *auth.Service
	LoanService *loans.Service
	BookStore   BookLister
	Version     string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService)
	booksController := NewBooksController(cfg.BookStore)
	loansController := NewLoansController(cfg.LoanService)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Greeting)
	})
	router.GET("/health", health.Status)

	router.POST("/register", authController.Register)
	router.POST("/login", authController.Login)

	router.GET("/books", booksController.GetAllBooks)
	router.GET("/user/books/:userId", booksController.GetUserBooks)

	router.PUT("/borrow/:bookId", loansController.Borrow)
	router.PUT("/renew/:bookId", loansController.Renew)
	router.PUT("/return/:bookId", loansController.Return)

	return router
}
