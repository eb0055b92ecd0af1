package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates every table this package owns. Production
// runs against pre-provisioned Postgres schemas; the seeder and the sqlite
// test harness call this to build the schema from the models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&bookingModel{},
		&userProgressModel{},
		&xpTransactionModel{},
		&leaderboardEntryModel{},
		&activityEntryModel{},
		&notificationModel{},
		&refundRecordModel{},
		&reviewModel{},
	)
}
