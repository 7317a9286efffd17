package controllers

import (
	"net/http"

	"github.com/freshfind/storefront/api/responses"
	"github.com/freshfind/storefront/internal/notifications"
)

// Drainer hands out and forgets the pending notifications.
type Drainer interface {
	Drain() []notifications.Notification
}

func NotificationsDrain(feed Drainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := feed.Drain()
		if items == nil {
			items = []notifications.Notification{}
		}
		responses.WriteSuccess(w, items)
	}
}
