package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/models"
	"github.com/dadalto/producao-api/utils"
)

func createTestLeader(t *testing.T, db *gorm.DB, username, password string, active bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Name:         "Carla Lima",
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleLeader,
		Active:       active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	db := setupControllerTestDB(t)
	cfg := testConfig()
	ctrl := NewAuthController(db, cfg)
	leader := createTestLeader(t, db, "carla", "segredo123", true)
	createTestLeader(t, db, "inactive", "segredo123", false)

	router := setupTestRouter()
	router.POST("/auth/login", ctrl.Login)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Successful login returns a usable token",
			requestBody:    map[string]interface{}{"username": "carla", "password": "segredo123"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				tokenStr := data["token"].(string)

				claims, err := utils.ParseToken(cfg.JWTSecret, tokenStr)
				assert.NoError(t, err)
				assert.Equal(t, leader.ID, claims.UserID)
				assert.Equal(t, models.RoleLeader, claims.Role)

				user := data["user"].(map[string]interface{})
				assert.Equal(t, "carla", user["username"])
				assert.NotContains(t, user, "password_hash", "hash never leaves the API")
			},
		},
		{
			name:           "Wrong password",
			requestBody:    map[string]interface{}{"username": "carla", "password": "errada"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown username",
			requestBody:    map[string]interface{}{"username": "ghost", "password": "segredo123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Inactive account",
			requestBody:    map[string]interface{}{"username": "inactive", "password": "segredo123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing password",
			requestBody:    map[string]interface{}{"username": "carla"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}
