package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &ProductModel{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestUserCreatedInactiveStaysInactive(t *testing.T) {
	db := setupModelTestDB(t)

	user := User{
		Name:         "Carla Lima",
		Username:     "carla",
		PasswordHash: "hash",
		Role:         RoleLeader,
		Active:       false,
	}
	assert.NoError(t, db.Create(&user).Error)

	var reloaded User
	assert.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.Active, "a deactivated account must not come back active")
}

func TestUserCreatedActiveStaysActive(t *testing.T) {
	db := setupModelTestDB(t)

	user := User{
		Name:         "Carla Lima",
		Username:     "carla",
		PasswordHash: "hash",
		Role:         RoleLeader,
		Active:       true,
	}
	assert.NoError(t, db.Create(&user).Error)

	var reloaded User
	assert.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, reloaded.Active)
}

func TestProductModelCreatedInactiveStaysInactive(t *testing.T) {
	db := setupModelTestDB(t)

	model := ProductModel{Name: "MODELO ANTIGO", Active: false}
	assert.NoError(t, db.Create(&model).Error)

	var reloaded ProductModel
	assert.NoError(t, db.First(&reloaded, model.ID).Error)
	assert.False(t, reloaded.Active, "a retired catalog entry must not come back active")
}
