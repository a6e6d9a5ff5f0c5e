package lifecycle

import (
	"errors"
	"fmt"

	"delivery-backend/constants"
	deliveryModel "delivery-backend/models/delivery"
	reviewModel "delivery-backend/models/review"
	"delivery-backend/models/user"
	"delivery-backend/services/notify"
	"delivery-backend/services/pricing"
	"delivery-backend/types"
	deliveryTypes "delivery-backend/types/delivery"
	"delivery-backend/utils"

	"gorm.io/gorm"
)

// Engine drives a delivery through its lifecycle. Every transition is
// authorization-checked first, then applied as a single conditional
// UPDATE guarded by the current status, so concurrent writers lose with
// a conflict instead of corrupting the row.
type Engine struct {
	db      *gorm.DB
	pricing *pricing.Engine
	notify  *notify.Dispatcher
}

func NewEngine(db *gorm.DB, pricingEngine *pricing.Engine, dispatcher *notify.Dispatcher) *Engine {
	return &Engine{db: db, pricing: pricingEngine, notify: dispatcher}
}

func (e *Engine) load(deliveryID uint) (*deliveryModel.Delivery, error) {
	var d deliveryModel.Delivery
	err := e.db.Preload("Client").Preload("Driver").First(&d, deliveryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("Delivery not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create opens a delivery. Clients create for themselves; staff must
// name the client and may bypass the quote with a pre-agreed
// distance/price pair. Coupons are validated up front and redeemed in
// the same transaction as the insert.
func (e *Engine) Create(callerID uint, role user.Role, req deliveryTypes.CreateDeliveryRequest) (*deliveryModel.Delivery, error) {
	clientID := callerID
	if role.IsStaff() {
		if req.ClientID == 0 {
			return nil, types.NewValidationError("client_id is required for admin-created deliveries")
		}
		clientID = req.ClientID
	}

	client, err := utils.GetUserByID(e.db, clientID)
	if err != nil {
		return nil, types.NewNotFoundError("Client not found")
	}
	if !client.CanParticipate() {
		return nil, types.NewForbiddenError("Client account is not active")
	}

	var distance, price float64

	validated, err := e.pricing.ValidateCoupons(clientID, req.Coupons)
	if err != nil {
		return nil, err
	}

	if req.HasManualPricing() && role.IsStaff() {
		distance = req.Distance
		price = pricing.ApplyCoupons(req.Price, validated)
	} else {
		quote, err := e.pricing.QuoteRoute(deliveryModel.Mode(req.Mode), req.From, req.To)
		if err != nil {
			return nil, err
		}
		distance = quote.Distance
		price = pricing.ApplyCoupons(quote.BasePrice, validated)
	}

	d := deliveryModel.Delivery{
		ClientID:      clientID,
		Mode:          deliveryModel.Mode(req.Mode),
		Status:        deliveryModel.StatusPending,
		Distance:      distance,
		Price:         price,
		PickUpNumber:  req.PickUpNumber,
		DropOffNumber: req.DropOffNumber,
		From:          req.From.Map(),
		To:            req.To.Map(),
		Coupons:       req.Coupons,
		Track:         deliveryModel.TrackLog{}.With(constants.TrackCreated),
	}
	if req.Note != "" {
		note := req.Note
		d.Note = &note
	}
	if len(req.Payment) > 0 {
		d.Payment = deliveryModel.JSONMap(req.Payment)
	}
	if len(req.Schedule) > 0 {
		d.Schedule = deliveryModel.JSONMap(req.Schedule)
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		for _, c := range validated {
			if err := e.pricing.Redeem(tx, c, d.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notify.Dispatch(notify.Payload{
		UserID:    clientID,
		Title:     "Delivery request successful",
		Details:   "Your delivery request was successful, a dispatch rider will be assigned to you soon.",
		Category:  constants.CategorySuccess,
		Link:      constants.LinkOrder,
		PayloadID: &d.ID,
	})

	return &d, nil
}

// assignGuard validates an assignment before anything is written.
func assignGuard(d *deliveryModel.Delivery, driver *user.User, reassign bool) error {
	if driver.Role != user.RoleDriver {
		return types.NewValidationError("Not a dispatch account")
	}
	if !driver.CanParticipate() {
		return types.NewConflictError("Driver account is not active")
	}
	if d.Status.IsTerminal() {
		return types.NewConflictError("Delivery is already " + d.Status.String())
	}
	if d.DriverID != nil {
		if !reassign {
			return types.NewConflictError("Delivery already has a driver, set reassign to confirm")
		}
		if *d.DriverID == driver.ID {
			return types.NewConflictError("Delivery is already assigned to this driver")
		}
	}
	return nil
}

// Assign attaches (or, with the reassign flag, swaps) a driver and
// moves the delivery to Processing.
func (e *Engine) Assign(req deliveryTypes.AssignRequest) (*deliveryModel.Delivery, error) {
	d, err := e.load(req.DeliveryID)
	if err != nil {
		return nil, err
	}

	driver, err := utils.GetUserByID(e.db, req.DriverID)
	if err != nil {
		return nil, types.NewNotFoundError("Driver not found")
	}

	if err := assignGuard(d, driver, req.Reassign); err != nil {
		return nil, err
	}

	action := constants.TrackAssigned
	if d.DriverID != nil {
		action = constants.TrackReassigned
	}

	// The driver guard in the WHERE clause pins the row to the state we
	// inspected: a concurrent assignment changes driver_id and loses us
	// the update.
	query := e.db.Model(&deliveryModel.Delivery{}).
		Where("id = ? AND status IN ?", d.ID, deliveryModel.ActiveStatuses())
	if d.DriverID == nil {
		query = query.Where("driver_id IS NULL")
	} else {
		query = query.Where("driver_id = ?", *d.DriverID)
	}

	res := query.Updates(map[string]interface{}{
		"status":    deliveryModel.StatusProcessing,
		"driver_id": driver.ID,
		"track":     deliveryModel.AppendExpr(action),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, types.NewConflictError("Delivery changed while assigning, try again")
	}

	e.notify.DispatchAll(
		notify.Payload{
			UserID:    d.ClientID,
			Title:     "Driver assigned",
			Details:   fmt.Sprintf("%s has been assigned to your delivery.", driver.Name),
			Category:  constants.CategorySuccess,
			Link:      constants.LinkOrder,
			PayloadID: &d.ID,
		},
		notify.Payload{
			UserID:    driver.ID,
			Title:     "New delivery",
			Details:   fmt.Sprintf("You have been assigned a delivery for %s.", d.Client.Name),
			Category:  constants.CategorySuccess,
			Link:      constants.LinkOrder,
			PayloadID: &d.ID,
		},
	)

	return e.load(d.ID)
}

// markGuard validates a driver-side transition before anything is
// written.
func markGuard(d *deliveryModel.Delivery, driverID uint) error {
	if d.DriverID == nil || *d.DriverID != driverID {
		return types.NewForbiddenError("Not authorized for this delivery")
	}
	if d.Status.IsTerminal() {
		return types.NewConflictError("Delivery is already " + d.Status.String())
	}
	return nil
}

// MarkPickupReady records that the driver is at the pickup point.
func (e *Engine) MarkPickupReady(driverID, deliveryID uint) (*deliveryModel.Delivery, error) {
	return e.mark(driverID, deliveryID, constants.TrackPickupReady, nil,
		"Ready for pickup",
		"Your package is ready to be received by %s.",
		"You are ready to receive a package for %s.")
}

// MarkDropoffReady records that the driver is at the drop off point.
func (e *Engine) MarkDropoffReady(driverID, deliveryID uint) (*deliveryModel.Delivery, error) {
	return e.mark(driverID, deliveryID, constants.TrackDropoffReady, nil,
		"Ready for drop off",
		"Your package is ready to be delivered by %s.",
		"You are ready to drop off a package for %s.")
}

// MarkReceived records that the package is with the driver.
func (e *Engine) MarkReceived(driverID, deliveryID uint) (*deliveryModel.Delivery, error) {
	next := deliveryModel.StatusProcessing
	return e.mark(driverID, deliveryID, constants.TrackReceived, &next,
		"Pick up successful",
		"Your package has been received by %s.",
		"You have received a package for %s.")
}

// MarkDelivered closes the delivery.
func (e *Engine) MarkDelivered(driverID, deliveryID uint) (*deliveryModel.Delivery, error) {
	next := deliveryModel.StatusDelivered
	return e.mark(driverID, deliveryID, constants.TrackDelivered, &next,
		"Delivery successful",
		"Your package has been delivered by %s.",
		"You have delivered a package for %s, well done!")
}

func (e *Engine) mark(driverID, deliveryID uint, action string, next *deliveryModel.Status, title, clientFmt, driverFmt string) (*deliveryModel.Delivery, error) {
	d, err := e.load(deliveryID)
	if err != nil {
		return nil, err
	}

	if err := markGuard(d, driverID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"track": deliveryModel.AppendExpr(action),
	}
	if next != nil {
		updates["status"] = *next
	}

	res := e.db.Model(&deliveryModel.Delivery{}).
		Where("id = ? AND status IN ? AND driver_id = ?", d.ID, deliveryModel.ActiveStatuses(), driverID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, types.NewConflictError("Delivery changed, try again")
	}

	e.notify.DispatchAll(
		notify.Payload{
			UserID:    d.ClientID,
			Title:     title,
			Details:   fmt.Sprintf(clientFmt, d.Driver.Name),
			Category:  constants.CategorySuccess,
			Link:      constants.LinkOrder,
			PayloadID: &d.ID,
		},
		notify.Payload{
			UserID:    driverID,
			Title:     title,
			Details:   fmt.Sprintf(driverFmt, d.Client.Name),
			Category:  constants.CategorySuccess,
			Link:      constants.LinkOrder,
			PayloadID: &d.ID,
		},
	)

	return e.load(d.ID)
}

// cancelGuard validates a cancellation before anything is written.
func cancelGuard(d *deliveryModel.Delivery, callerID uint, role user.Role) error {
	if !role.IsStaff() && d.ClientID != callerID {
		return types.NewForbiddenError("Not authorized for this delivery")
	}
	if !d.Status.IsActive() {
		return types.NewConflictError("Delivery is already " + d.Status.String())
	}
	return nil
}

// Cancel aborts an active delivery. A client may attach a low rating
// explaining the cancellation, which is stored as a regular review.
func (e *Engine) Cancel(callerID uint, role user.Role, deliveryID uint, req deliveryTypes.CancelRequest) (*deliveryModel.Delivery, error) {
	d, err := e.load(deliveryID)
	if err != nil {
		return nil, err
	}

	if err := cancelGuard(d, callerID, role); err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&deliveryModel.Delivery{}).
			Where("id = ? AND status IN ?", d.ID, deliveryModel.ActiveStatuses()).
			Updates(map[string]interface{}{
				"status": deliveryModel.StatusCancelled,
				"track":  deliveryModel.AppendExpr(constants.TrackCancelled),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.NewConflictError("Delivery changed, try again")
		}

		if req.Rating != 0 && role == user.RoleClient && d.DriverID != nil {
			r := reviewModel.Review{
				DriverID:   *d.DriverID,
				ClientID:   d.ClientID,
				DeliveryID: d.ID,
				Rating:     req.Rating,
			}
			if req.Remark != "" {
				remark := req.Remark
				r.Remark = &remark
			}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			if err := tx.Model(&deliveryModel.Delivery{}).
				Where("id = ?", d.ID).
				Update("review_id", r.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payloads := []notify.Payload{{
		UserID:    d.ClientID,
		Title:     "Delivery cancelled",
		Details:   "Your delivery has been cancelled.",
		Category:  constants.CategoryWarning,
		Link:      constants.LinkOrder,
		PayloadID: &d.ID,
	}}
	if d.DriverID != nil {
		payloads = append(payloads, notify.Payload{
			UserID:    *d.DriverID,
			Title:     "Delivery cancelled",
			Details:   fmt.Sprintf("The delivery for %s has been cancelled.", d.Client.Name),
			Category:  constants.CategoryWarning,
			Link:      constants.LinkOrder,
			PayloadID: &d.ID,
		})
	}
	e.notify.DispatchAll(payloads...)

	return e.load(d.ID)
}

// reviewGuard validates a review before anything is written.
func reviewGuard(d *deliveryModel.Delivery, clientID uint) error {
	if d.ClientID != clientID {
		return types.NewForbiddenError("Not authorized for this delivery")
	}
	if !d.Status.IsTerminal() {
		return types.NewConflictError("Delivery is not finished yet")
	}
	if d.ReviewID != nil {
		return types.NewConflictError("Delivery has already been reviewed")
	}
	if d.DriverID == nil {
		return types.NewConflictError("Delivery has no driver to review")
	}
	return nil
}

// Review rates the driver of a finished delivery. The review_id IS
// NULL guard makes double reviews lose as conflicts.
func (e *Engine) Review(clientID, deliveryID uint, req deliveryTypes.ReviewRequest) (*reviewModel.Review, error) {
	d, err := e.load(deliveryID)
	if err != nil {
		return nil, err
	}

	if err := reviewGuard(d, clientID); err != nil {
		return nil, err
	}

	r := reviewModel.Review{
		DriverID:   *d.DriverID,
		ClientID:   clientID,
		DeliveryID: d.ID,
		Rating:     req.Rating,
	}
	if req.Remark != "" {
		remark := req.Remark
		r.Remark = &remark
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		res := tx.Model(&deliveryModel.Delivery{}).
			Where("id = ? AND review_id IS NULL", d.ID).
			Updates(map[string]interface{}{
				"review_id": r.ID,
				"track":     deliveryModel.AppendExpr(constants.TrackReviewed),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.NewConflictError("Delivery has already been reviewed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notify.DispatchAll(
		notify.Payload{
			UserID:    *d.DriverID,
			Title:     "New review",
			Details:   fmt.Sprintf("%s rated your delivery %d/5.", d.Client.Name, req.Rating),
			Category:  constants.CategorySuccess,
			Link:      constants.LinkProfile,
			PayloadID: &d.ID,
		},
		notify.Payload{
			UserID:    clientID,
			Title:     "Review submitted",
			Details:   "Thank you for rating your delivery.",
			Category:  constants.CategorySuccess,
			Link:      constants.LinkOrder,
			PayloadID: &d.ID,
		},
	)

	return &r, nil
}
