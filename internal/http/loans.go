package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autolib/autolib/internal/loans"
)

// LoansController handles the borrow/renew/return endpoints.
type LoansController struct {
	service *loans.Service
}

// NewLoansController creates a new LoansController.
func NewLoansController(service *loans.Service) *LoansController {
	return &LoansController{service: service}
}

type loanRequest struct {
	UserID uint `json:"userId"`
}

type borrowResponse struct {
	Message            string    `json:"message"`
	Expires            time.Time `json:"expires"`
	BorrowedBy         uint      `json:"borrowed_by"`
	BorrowedByUsername string    `json:"borrowed_by_username"`
}

// Borrow places a book on loan to the requesting user.
func (lc *LoansController) Borrow(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	loan, err := lc.service.Borrow(bookID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrUserNotFound):
			respondNotFound(c, err.Error())
		case errors.Is(err, loans.ErrBookUnavailable):
			respondNotFound(c, err.Error())
		default:
			respondInternalError(c, err, "borrow book")
		}
		return
	}

	c.JSON(http.StatusOK, borrowResponse{
		Message:            "Book borrowed successfully",
		Expires:            loan.Expires,
		BorrowedBy:         loan.BorrowedBy,
		BorrowedByUsername: loan.BorrowedByUsername,
	})
}

type renewResponse struct {
	Message    string    `json:"message"`
	NewExpires time.Time `json:"new_expires"`
}

// Renew extends an existing loan held by the requesting user.
func (lc *LoansController) Renew(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	expires, err := lc.service.Renew(bookID, req.UserID)
	if err != nil {
		if errors.Is(err, loans.ErrNotBorrowedByUser) {
			respondNotFound(c, err.Error())
			return
		}
		respondInternalError(c, err, "renew book")
		return
	}

	c.JSON(http.StatusOK, renewResponse{
		Message:    "Book renewed successfully",
		NewExpires: expires,
	})
}

// Return clears a loan regardless of who holds it.
func (lc *LoansController) Return(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := lc.service.Return(bookID); err != nil {
		if errors.Is(err, loans.ErrBookNotFound) {
			respondNotFound(c, err.Error())
			return
		}
		respondInternalError(c, err, "return book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book returned successfully"})
}
