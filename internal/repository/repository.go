package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Listing      ListingRepository
	ListingView  ListingViewRepository
	Notification NotificationRepository
	Subscription SubscriptionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Listing:      NewListingRepository(db),
		ListingView:  NewListingViewRepository(db),
		Notification: NewNotificationRepository(db),
		Subscription: NewSubscriptionRepository(db),
	}
}
