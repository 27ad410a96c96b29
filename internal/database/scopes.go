package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/utils"
)

// Paginate limits a listing to one page.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Newest orders by creation time, most recent first, with the id as a
// tiebreaker so pages are stable.
func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// Oldest is the reverse of Newest, used for threads.
func Oldest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// OrderBy returns a scope ordering by the given columns.
func OrderBy(columns string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(columns)
	}
}
