package delivery

// Status of a delivery.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Mode of transport used for a delivery.
type Mode string

const (
	ModeMotorcycle Mode = "Motorcycle"
	ModeCar        Mode = "Car"
	ModeMiniVan    Mode = "Mini Van"
)

// Helper methods for Status
func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the delivery can no longer change state.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive returns true while the delivery is still in flight.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusProcessing
}

// ActiveStatuses is the WHERE-clause set used by conditional transition
// updates: only active deliveries may move.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusProcessing}
}

func (m Mode) String() string {
	return string(m)
}

func (m Mode) IsValid() bool {
	switch m {
	case ModeMotorcycle, ModeCar, ModeMiniVan:
		return true
	default:
		return false
	}
}
