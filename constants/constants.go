package constants

// Track actions appended to a delivery's track log. The mobile client
// matches on these strings, so they are frozen.
const (
	TrackCreated      = "Created"
	TrackAssigned     = "Assigned to a dispatch rider"
	TrackReassigned   = "Re-assigned to a dispatch rider"
	TrackPickupReady  = "Driver is ready for pick up"
	TrackDropoffReady = "Driver is ready for drop off"
	TrackReceived     = "Picked up by a dispatch rider"
	TrackDelivered    = "Delivered"
	TrackCancelled    = "Cancelled"
	TrackReviewed     = "Reviewed"
)

// Notification categories.
const (
	CategorySuccess = "success"
	CategoryWarning = "warning"
	CategoryError   = "error"
)

// Notification link tags understood by the client apps.
const (
	LinkOrder   = "order"
	LinkProfile = "profile"
	LinkAccount = "account"
)

// Websocket event names.
const (
	EventNotification = "NewNotification"
	EventDrivers      = "drivers"
)
