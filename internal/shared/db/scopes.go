package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderByID orders results by ascending primary key of table, matching creation order.
func OrderByID(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id ASC")
	}
}

// ForUpdate adds SELECT ... FOR UPDATE on engines that support row locks.
// SQLite serializes writers at the database level and rejects the clause.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
			return db
		}
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
