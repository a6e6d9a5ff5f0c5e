package types

import (
	"errors"
	"time"

	couponModel "delivery-backend/models/coupon"
	deliveryModel "delivery-backend/models/delivery"
	pricingModel "delivery-backend/models/pricing"
)

// CouponCreateRequest issues a coupon to a client. Usages of -1 means
// unlimited redemptions.
type CouponCreateRequest struct {
	Type     string    `json:"type"`
	Value    float64   `json:"value"`
	Usages   int       `json:"usages"`
	ClientID uint      `json:"client_id"`
	Expires  time.Time `json:"expires"`
}

func (r *CouponCreateRequest) Validate() error {
	t := couponModel.Type(r.Type)
	if !t.IsValid() {
		return errors.New("invalid coupon type")
	}
	if r.Value <= 0 {
		return errors.New("value must be positive")
	}
	if t == couponModel.TypePercentage && r.Value > 100 {
		return errors.New("percentage value cannot exceed 100")
	}
	if r.Usages == 0 || r.Usages < couponModel.UnlimitedUsages {
		return errors.New("usages must be positive or -1 for unlimited")
	}
	if r.ClientID == 0 {
		return errors.New("client_id is required")
	}
	if !r.Expires.After(time.Now()) {
		return errors.New("expires must be in the future")
	}
	return nil
}

// PriceListRequest publishes a new price table for a transport mode.
type PriceListRequest struct {
	Mode              string                    `json:"mode"`
	Breakpoints       []pricingModel.Breakpoint `json:"breakpoints"`
	LongDistancePrice float64                   `json:"long_distance_price"`
}

func (r *PriceListRequest) Validate() error {
	if !deliveryModel.Mode(r.Mode).IsValid() {
		return errors.New("invalid transport mode")
	}
	if len(r.Breakpoints) == 0 {
		return errors.New("at least one breakpoint is required")
	}
	for _, bp := range r.Breakpoints {
		if bp.Distance <= 0 || bp.Price <= 0 {
			return errors.New("breakpoint distances and prices must be positive")
		}
	}
	if r.LongDistancePrice <= 0 {
		return errors.New("long_distance_price must be positive")
	}
	return nil
}
