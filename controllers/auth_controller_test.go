package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/inherbver/herbisveritas-sub008/controllers"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// ---- concrete mock implementing services.UserService ----

type mockUserSvc struct {
	authResp  *models.AuthResponse
	authErr   *services.ServiceError
	user      *models.User
	getErr    *services.ServiceError
	users     []models.User
	total     int64
	listErr   *services.ServiceError
	updateErr *services.ServiceError
}

func (m *mockUserSvc) Register(_ context.Context, _ *models.RegisterRequest) (*models.AuthResponse, *services.ServiceError) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.authResp, nil
}
func (m *mockUserSvc) Login(_ context.Context, _ *models.LoginRequest) (*models.AuthResponse, *services.ServiceError) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.authResp, nil
}
func (m *mockUserSvc) GetByID(_ context.Context, _ uuid.UUID) (*models.User, *services.ServiceError) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}
func (m *mockUserSvc) ListUsers(_ context.Context, _, _ int) ([]models.User, int64, *services.ServiceError) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.users, m.total, nil
}
func (m *mockUserSvc) UpdateRole(_ context.Context, _ uuid.UUID, role string) (*models.User, *services.ServiceError) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.User{ID: uuid.New(), Role: role}, nil
}

// ---- helpers ----

func setupAuthRouter(svc services.UserService, identity gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ac := controllers.NewAuthController(svc)

	r.POST("/auth/register", ac.Register)
	r.POST("/auth/login", ac.Login)
	if identity != nil {
		r.GET("/auth/me", identity, ac.Me)
	} else {
		r.GET("/auth/me", ac.Me)
	}
	return r
}

// ---- tests ----

func TestRegister_Created(t *testing.T) {
	svc := &mockUserSvc{authResp: &models.AuthResponse{
		Token: "signed-token",
		User:  models.User{ID: uuid.New(), Email: "marie@example.com", Role: models.RoleUser},
	}}
	r := setupAuthRouter(svc, nil)

	b, _ := json.Marshal(models.RegisterRequest{Email: "marie@example.com", Password: "strongpassword123", Name: "Marie"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.AuthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "signed-token", resp.Token)
}

func TestRegister_ShortPassword(t *testing.T) {
	r := setupAuthRouter(&mockUserSvc{}, nil)

	b, _ := json.Marshal(map[string]string{"email": "marie@example.com", "password": "short", "name": "Marie"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &mockUserSvc{authErr: &services.ServiceError{StatusCode: 409, Message: "Email already exists"}}
	r := setupAuthRouter(svc, nil)

	b, _ := json.Marshal(models.RegisterRequest{Email: "marie@example.com", Password: "strongpassword123", Name: "Marie"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockUserSvc{authErr: &services.ServiceError{StatusCode: 401, Message: "Invalid credentials"}}
	r := setupAuthRouter(svc, nil)

	b, _ := json.Marshal(models.LoginRequest{Email: "marie@example.com", Password: "wrongpassword"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ReturnsCaller(t *testing.T) {
	userID := uuid.New()
	svc := &mockUserSvc{user: &models.User{ID: userID, Email: "marie@example.com"}}
	r := setupAuthRouter(svc, withUser(userID))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestMe_WithoutIdentity(t *testing.T) {
	r := setupAuthRouter(&mockUserSvc{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
