package notify

import (
	"delivery-backend/constants"
	"delivery-backend/logger"
	"delivery-backend/models/notification"
	"delivery-backend/models/user"

	"gorm.io/gorm"
)

// Pusher delivers a mobile push notification.
type Pusher interface {
	Send(token, title, body string) error
}

// Emitter delivers a realtime event to a live socket.
type Emitter interface {
	SendTo(socketID, event string, data interface{}) bool
}

// Dispatcher fans one notification out to its three channels: the
// notifications table (always), mobile push and the websocket (both
// best-effort). Callers fire it after their own writes have committed.
type Dispatcher struct {
	db   *gorm.DB
	push Pusher
	hub  Emitter
}

func NewDispatcher(db *gorm.DB, push Pusher, hub Emitter) *Dispatcher {
	return &Dispatcher{db: db, push: push, hub: hub}
}

// Payload describes one notification for one user.
type Payload struct {
	UserID    uint
	Title     string
	Details   string
	Category  string
	Link      string
	PayloadID *uint
}

// Dispatch fans the payload out on a fresh goroutine so the HTTP
// response never waits on the push gateway.
func (d *Dispatcher) Dispatch(p Payload) {
	go d.deliver(p)
}

// DispatchAll dispatches several payloads, typically the client/driver
// pair produced by a lifecycle transition.
func (d *Dispatcher) DispatchAll(payloads ...Payload) {
	for _, p := range payloads {
		d.Dispatch(p)
	}
}

func (d *Dispatcher) deliver(p Payload) {
	category := p.Category
	switch category {
	case constants.CategorySuccess, constants.CategoryWarning, constants.CategoryError:
	default:
		category = constants.CategorySuccess
	}

	row := notification.Notification{
		UserID:    p.UserID,
		Title:     p.Title,
		Details:   p.Details,
		Category:  category,
		PayloadID: p.PayloadID,
	}
	if p.Link != "" {
		link := p.Link
		row.Link = &link
	}

	if err := d.db.Create(&row).Error; err != nil {
		logger.Error("Failed to persist notification", err)
		return
	}

	var u user.User
	if err := d.db.First(&u, p.UserID).Error; err != nil {
		logger.Error("Notification recipient lookup failed", err)
		return
	}

	// Push and socket delivery never fail the dispatch.
	if d.push != nil && u.PushToken != nil && *u.PushToken != "" {
		if err := d.push.Send(*u.PushToken, p.Title, p.Details); err != nil {
			logger.Warning("Push delivery failed for user " + u.Uuid + ": " + err.Error())
		}
	}

	if d.hub != nil && u.SocketID != nil && *u.SocketID != "" {
		d.hub.SendTo(*u.SocketID, constants.EventNotification, row)
	}
}
