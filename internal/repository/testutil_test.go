package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/models"
)

// setupTestDB opens an isolated in-memory database per test. The named DSN
// keeps the database alive across pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.ClassStudent{},
		&models.ClassApplication{},
		&models.Activity{},
		&models.ActivityParticipation{},
		&models.LearningGoal{},
		&models.Evaluation{},
		&models.Feedback{},
		&models.SystemLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Name:         username,
		Email:        username + "@campus.test",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedClass(t *testing.T, db *gorm.DB, name string, teacherID uint) models.Class {
	t.Helper()
	class := models.Class{Name: name, TeacherID: teacherID}
	require.NoError(t, db.Create(&class).Error)
	return class
}

func seedActivity(t *testing.T, db *gorm.DB, title string, creatorID uint, maxParticipants int) models.Activity {
	t.Helper()
	activity := models.Activity{
		Title:           title,
		Type:            models.ActivityTypeWorkshop,
		Status:          models.ActivityUpcoming,
		Location:        "Aula",
		Organizer:       "OSIS",
		CreatorID:       creatorID,
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, db.Create(&activity).Error)
	return activity
}
