package lifecycle

import (
	"testing"

	"delivery-backend/constants"
	deliveryModel "delivery-backend/models/delivery"
	"delivery-backend/models/user"
	"delivery-backend/types"
)

func activeDriver(id uint) *user.User {
	return &user.User{ID: id, Role: user.RoleDriver, Valid: true}
}

func pendingDelivery(clientID uint) *deliveryModel.Delivery {
	return &deliveryModel.Delivery{
		ID:       1,
		ClientID: clientID,
		Status:   deliveryModel.StatusPending,
		Track:    deliveryModel.TrackLog{}.With(constants.TrackCreated),
	}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := types.HTTPStatus(err); got != status {
		t.Fatalf("got status %d (%v), want %d", got, err, status)
	}
}

func TestAssignGuardAcceptsFreshAssignment(t *testing.T) {
	d := pendingDelivery(10)
	if err := assignGuard(d, activeDriver(20), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssignGuardRejectsNonDriver(t *testing.T) {
	d := pendingDelivery(10)
	client := &user.User{ID: 20, Role: user.RoleClient, Valid: true}
	wantStatus(t, assignGuard(d, client, false), 400)
}

func TestAssignGuardRejectsInactiveDriver(t *testing.T) {
	d := pendingDelivery(10)

	unapproved := activeDriver(20)
	unapproved.Valid = false
	wantStatus(t, assignGuard(d, unapproved, false), 409)

	banned := activeDriver(21)
	banned.Banned = true
	wantStatus(t, assignGuard(d, banned, false), 409)
}

func TestAssignGuardRequiresReassignFlag(t *testing.T) {
	d := pendingDelivery(10)
	existing := uint(30)
	d.DriverID = &existing
	d.Status = deliveryModel.StatusProcessing

	wantStatus(t, assignGuard(d, activeDriver(20), false), 409)

	// With the flag set, swapping to a different driver is fine.
	if err := assignGuard(d, activeDriver(20), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssignGuardRejectsSameDriver(t *testing.T) {
	d := pendingDelivery(10)
	existing := uint(20)
	d.DriverID = &existing
	d.Status = deliveryModel.StatusProcessing

	wantStatus(t, assignGuard(d, activeDriver(20), true), 409)
}

func TestAssignGuardRejectsTerminalStates(t *testing.T) {
	for _, status := range []deliveryModel.Status{deliveryModel.StatusDelivered, deliveryModel.StatusCancelled} {
		d := pendingDelivery(10)
		d.Status = status
		wantStatus(t, assignGuard(d, activeDriver(20), true), 409)
	}
}

func TestMarkGuardRequiresAssignedDriver(t *testing.T) {
	d := pendingDelivery(10)
	wantStatus(t, markGuard(d, 20), 403)

	other := uint(99)
	d.DriverID = &other
	wantStatus(t, markGuard(d, 20), 403)

	mine := uint(20)
	d.DriverID = &mine
	if err := markGuard(d, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkGuardRejectsTerminalStates(t *testing.T) {
	mine := uint(20)
	for _, status := range []deliveryModel.Status{deliveryModel.StatusDelivered, deliveryModel.StatusCancelled} {
		d := pendingDelivery(10)
		d.DriverID = &mine
		d.Status = status
		wantStatus(t, markGuard(d, 20), 409)
	}
}

func TestCancelGuardOwnershipAndStatus(t *testing.T) {
	d := pendingDelivery(10)

	if err := cancelGuard(d, 10, user.RoleClient); err != nil {
		t.Fatalf("owner cancel rejected: %v", err)
	}
	if err := cancelGuard(d, 99, user.RoleAdmin); err != nil {
		t.Fatalf("admin cancel rejected: %v", err)
	}
	wantStatus(t, cancelGuard(d, 99, user.RoleClient), 403)

	d.Status = deliveryModel.StatusDelivered
	wantStatus(t, cancelGuard(d, 10, user.RoleClient), 409)
}

func TestReviewGuard(t *testing.T) {
	driverID := uint(20)

	d := pendingDelivery(10)
	d.DriverID = &driverID
	d.Status = deliveryModel.StatusDelivered

	if err := reviewGuard(d, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStatus(t, reviewGuard(d, 99), 403)

	active := pendingDelivery(10)
	active.DriverID = &driverID
	wantStatus(t, reviewGuard(active, 10), 409)

	reviewed := pendingDelivery(10)
	reviewed.DriverID = &driverID
	reviewed.Status = deliveryModel.StatusDelivered
	rid := uint(5)
	reviewed.ReviewID = &rid
	wantStatus(t, reviewGuard(reviewed, 10), 409)

	driverless := pendingDelivery(10)
	driverless.Status = deliveryModel.StatusCancelled
	wantStatus(t, reviewGuard(driverless, 10), 409)
}

func TestTrackLogWithAppendsWithoutMutating(t *testing.T) {
	track := deliveryModel.TrackLog{}.With(constants.TrackCreated)
	next := track.With(constants.TrackAssigned)

	if len(track) != 1 {
		t.Fatalf("original track mutated, len=%d", len(track))
	}
	if len(next) != 2 {
		t.Fatalf("appended track len=%d, want 2", len(next))
	}
	if next[0].Action != constants.TrackCreated || next[1].Action != constants.TrackAssigned {
		t.Fatalf("unexpected track order: %+v", next)
	}
	if next[1].Timestamp.IsZero() {
		t.Fatal("appended entry has no timestamp")
	}
}
