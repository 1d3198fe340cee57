package repository

import "gorm.io/gorm"

// GormStore is the SQL-backed Store.
type GormStore struct {
	*GormUserRepository
	*GormTaskRepository
	*GormProjectRepository
	*GormTeamRepository
}

// NewGormStore builds a Store over an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		GormUserRepository:    NewUserRepository(db),
		GormTaskRepository:    NewTaskRepository(db),
		GormProjectRepository: NewProjectRepository(db),
		GormTeamRepository:    NewTeamRepository(db),
	}
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
