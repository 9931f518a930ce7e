package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"northwind-service/internal/model"
	"northwind-service/internal/store"
	"northwind-service/pkg/config"
	"northwind-service/pkg/jwtutil"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "handler-test-key", ExpirationMinutes: 60})
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.Category{}, &model.Supplier{}, &model.Product{}, &model.User{})
	require.NoError(t, err)

	return store.New(db)
}

func createUser(t *testing.T, st *store.Store, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.Create(context.Background(), &model.User{
		Email:    email,
		Password: string(hash),
		Role:     role,
	}))
}

func postJSON(t *testing.T, handler echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLoginSuccess(t *testing.T) {
	st := newTestStore(t)
	createUser(t, st, "admin@northwind.com", "admin123", model.RoleAdmin)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"admin@northwind.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["token"])
	require.NotEmpty(t, body["expires_at"])
	require.ElementsMatch(t, []interface{}{"admin", "user"}, body["roles"])

	claims, err := jwtutil.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, "admin@northwind.com", claims.Email)
	require.True(t, claims.HasRole(model.RoleAdmin))
}

func TestLoginWrongPassword(t *testing.T) {
	st := newTestStore(t)
	createUser(t, st, "user@northwind.com", "user123", model.RoleUser)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"user@northwind.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	st := newTestStore(t)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"nobody@northwind.com","password":"whatever"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	st := newTestStore(t)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"not-an-email","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterCreatesUserWithUserRole(t *testing.T) {
	st := newTestStore(t)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Register, "/api/auth/register", `{"email":"new@northwind.com","password":"longenough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := st.UserByEmail(context.Background(), "new@northwind.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, model.RoleUser, user.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("longenough")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	createUser(t, st, "taken@northwind.com", "password1", model.RoleUser)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Register, "/api/auth/register", `{"email":"taken@northwind.com","password":"password2"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	st := newTestStore(t)
	h := NewAuthHandler(st)

	rec := postJSON(t, h.Register, "/api/auth/register", `{"email":"new@northwind.com","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
