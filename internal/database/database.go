package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartlibrary/server/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite database and migrates all entities.
// The busy timeout keeps concurrent writers queueing on SQLite's single
// write lock instead of failing immediately.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Book{},
		&entities.Member{},
		&entities.BookClub{},
		&entities.Loan{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Summary holds the dashboard counters.
type Summary struct {
	TotalBooks      int64 `json:"total_books"`
	AvailableCopies int64 `json:"available_copies"`
	Borrowed        int64 `json:"borrowed"`
	Overdue         int64 `json:"overdue"`
	Authors         int64 `json:"authors"`
	Members         int64 `json:"members"`
	Clubs           int64 `json:"clubs"`
	Users           int64 `json:"users"`
}

// GetSummary computes the dashboard counters in one pass. Overdue is derived
// at read time: an active loan past its due date; no OVERDUE status is ever
// stored.
func (d *Database) GetSummary(now time.Time) (*Summary, error) {
	var s Summary

	if err := d.DB.Model(&entities.Book{}).Count(&s.TotalBooks).Error; err != nil {
		return nil, err
	}
	// COALESCE so an empty catalog sums to 0, not NULL
	row := d.DB.Model(&entities.Book{}).Select("COALESCE(SUM(available_copies), 0)").Row()
	if err := row.Scan(&s.AvailableCopies); err != nil {
		return nil, err
	}
	if err := d.DB.Model(&entities.Loan{}).
		Where("status = ?", entities.LoanStatusLoaned).
		Count(&s.Borrowed).Error; err != nil {
		return nil, err
	}
	if err := d.DB.Model(&entities.Loan{}).
		Where("status = ? AND due_date < ?", entities.LoanStatusLoaned, now).
		Count(&s.Overdue).Error; err != nil {
		return nil, err
	}
	if err := d.DB.Model(&entities.Author{}).Count(&s.Authors).Error; err != nil {
		return nil, err
	}
	if err := d.DB.Model(&entities.Member{}).Count(&s.Members).Error; err != nil {
		return nil, err
	}
	if err := d.DB.Model(&entities.BookClub{}).Count(&s.Clubs).Error; err != nil {
		return nil, err
	}
	if err := d.DB.Model(&entities.User{}).Count(&s.Users).Error; err != nil {
		return nil, err
	}

	return &s, nil
}
