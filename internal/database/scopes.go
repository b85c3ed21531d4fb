package database

import (
	"gorm.io/gorm"

	"github.com/ayatoki/contact-tracker-api/internal/utils"
)

// WorkspaceScope restricts a query to rows stamped with the given workspace.
// Every tenant-scoped read goes through this scope.
func WorkspaceScope(workspaceID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("workspace_id = ?", workspaceID)
	}
}

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
