package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/autolib/autolib/internal/auth"
	"github.com/autolib/autolib/internal/database"
	"github.com/autolib/autolib/internal/database/books"
	"github.com/autolib/autolib/internal/database/users"
	"github.com/autolib/autolib/internal/loans"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *books.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase("", dbPath)
	require.NoError(t, err)

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	authService := auth.NewService(userRepo, bcrypt.MinCost)
	loanService, err := loans.NewService(bookRepo, userRepo, 30, "America/Toronto")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:    db,
		AuthService: authService,
		LoanService: loanService,
		BookStore:   bookRepo,
		Version:     "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, bookRepo, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGreeting(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, router, "GET", "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Greeting, w.Body.String())
}

func TestRegister(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	t.Run("creates the user", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/register", gin.H{
			"username":         "alice",
			"password":         "pw",
			"confirm_password": "pw",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.NotZero(t, body["user_id"])
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "User registered successfully", body["message"])
	})

	t.Run("rejects a duplicate username regardless of password", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/register", gin.H{
			"username":         "alice",
			"password":         "other",
			"confirm_password": "other",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["error"], "already exists")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/register", gin.H{
			"username": "bob",
			"password": "pw",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects mismatched passwords", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/register", gin.H{
			"username":         "bob",
			"password":         "pw",
			"confirm_password": "other",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["error"], "do not match")
	})
}

func TestLogin(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	registered := doJSON(t, router, "POST", "/register", gin.H{
		"username":         "alice",
		"password":         "pw",
		"confirm_password": "pw",
	})
	require.Equal(t, http.StatusCreated, registered.Code)
	userID := decodeBody(t, registered)["user_id"]

	t.Run("returns the same identity on repeated logins", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := doJSON(t, router, "POST", "/login", gin.H{"username": "alice", "password": "pw"})
			assert.Equal(t, http.StatusOK, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, userID, body["user_id"])
			assert.Equal(t, "alice", body["username"])
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/login", gin.H{"username": "alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/login", gin.H{"username": "alice", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBorrowRenewReturnLifecycle(t *testing.T) {
	router, bookRepo, cleanup := setupTestRouter(t)
	defer cleanup()

	book, err := bookRepo.CreateBook("Dune", "Frank Herbert")
	require.NoError(t, err)
	bookPath := "/" + jsonNumber(book.ID)

	registered := doJSON(t, router, "POST", "/register", gin.H{
		"username":         "alice",
		"password":         "pw",
		"confirm_password": "pw",
	})
	require.Equal(t, http.StatusCreated, registered.Code)
	userID := uint(decodeBody(t, registered)["user_id"].(float64))

	// Borrow: expiry is 30 days out.
	w := doJSON(t, router, "PUT", "/borrow"+bookPath, gin.H{"userId": userID})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Book borrowed successfully", body["message"])
	assert.Equal(t, float64(userID), body["borrowed_by"])
	assert.Equal(t, "alice", body["borrowed_by_username"])

	expires, err := time.Parse(time.RFC3339Nano, body["expires"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expires, time.Minute)

	// Borrowing again fails, even for another user.
	other := doJSON(t, router, "POST", "/register", gin.H{
		"username":         "bob",
		"password":         "pw",
		"confirm_password": "pw",
	})
	require.Equal(t, http.StatusCreated, other.Code)
	otherID := uint(decodeBody(t, other)["user_id"].(float64))

	w = doJSON(t, router, "PUT", "/borrow"+bookPath, gin.H{"userId": otherID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Renew by the borrower extends the loan.
	time.Sleep(10 * time.Millisecond)
	w = doJSON(t, router, "PUT", "/renew"+bookPath, gin.H{"userId": userID})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	newExpires, err := time.Parse(time.RFC3339Nano, body["new_expires"].(string))
	require.NoError(t, err)
	assert.True(t, newExpires.After(expires))

	// Renew by anyone else fails.
	w = doJSON(t, router, "PUT", "/renew"+bookPath, gin.H{"userId": otherID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The user's loan list shows the book; the other user's is empty.
	w = doJSON(t, router, "GET", "/user/books/"+jsonNumber(userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Dune", mine[0]["title"])

	w = doJSON(t, router, "GET", "/user/books/"+jsonNumber(otherID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var theirs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &theirs))
	assert.Empty(t, theirs)

	// Return clears the borrower fields.
	w = doJSON(t, router, "PUT", "/return"+bookPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book returned successfully", decodeBody(t, w)["message"])

	w = doJSON(t, router, "GET", "/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var catalog []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	require.Len(t, catalog, 1)
	assert.Nil(t, catalog[0]["borrowed_by"])
	assert.Nil(t, catalog[0]["borrowed_by_username"])
	assert.Nil(t, catalog[0]["expires"])
}

func TestBorrow_UnknownUser(t *testing.T) {
	router, bookRepo, cleanup := setupTestRouter(t)
	defer cleanup()

	book, err := bookRepo.CreateBook("Dune", "Frank Herbert")
	require.NoError(t, err)

	// A missing borrower is a clean 404, never a crash.
	w := doJSON(t, router, "PUT", "/borrow/"+jsonNumber(book.ID), gin.H{"userId": 999})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "user not found")
}

func TestBorrow_MissingBook(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	registered := doJSON(t, router, "POST", "/register", gin.H{
		"username":         "alice",
		"password":         "pw",
		"confirm_password": "pw",
	})
	require.Equal(t, http.StatusCreated, registered.Code)
	userID := uint(decodeBody(t, registered)["user_id"].(float64))

	w := doJSON(t, router, "PUT", "/borrow/999", gin.H{"userId": userID})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReturn_MissingBook(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, router, "PUT", "/return/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidIDParam(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, router, "PUT", "/borrow/not-a-number", gin.H{"userId": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, router, "GET", "/books", nil)

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func jsonNumber(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
