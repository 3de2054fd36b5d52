package postgres

import (
	"testing"

	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, MigrateModels(db,
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Recipe{},
		&models.QueueItem{},
		&models.WaitlistInvitation{},
		&models.GroupInvitation{},
		&models.PurchaseActivation{},
	))

	return db
}
