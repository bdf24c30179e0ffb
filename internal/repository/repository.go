package repository

import (
	"afisha/internal/database"
)

type Repositories struct {
	Users         *UserRepository
	Categories    *CategoryRepository
	Events        *EventRepository
	Requests      *RequestRepository
	Compilations  *CompilationRepository
	Subscriptions *SubscriptionRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Categories:    NewCategoryRepository(db),
		Events:        NewEventRepository(db),
		Requests:      NewRequestRepository(db),
		Compilations:  NewCompilationRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
	}
}
