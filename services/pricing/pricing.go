package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"delivery-backend/httpServices/routing"
	couponModel "delivery-backend/models/coupon"
	deliveryModel "delivery-backend/models/delivery"
	pricingModel "delivery-backend/models/pricing"
	"delivery-backend/types"
	deliveryTypes "delivery-backend/types/delivery"

	"gorm.io/gorm"
)

// Matrix measures a route between two coordinates.
type Matrix interface {
	Distance(from, to deliveryTypes.Coordinate) (*routing.MatrixResult, error)
}

// Engine owns everything money-related: price lists, route quotes and
// coupon validation/redemption.
type Engine struct {
	db     *gorm.DB
	matrix Matrix
}

func NewEngine(db *gorm.DB, matrix Matrix) *Engine {
	return &Engine{db: db, matrix: matrix}
}

// LatestPriceList returns the authoritative price table for a mode.
// Updates insert new rows, so the newest row wins.
func (e *Engine) LatestPriceList(mode deliveryModel.Mode) (*pricingModel.PriceList, error) {
	var list pricingModel.PriceList
	err := e.db.Where("mode = ?", mode).Order("created_at DESC").First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("No price list published for " + mode.String())
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// PriceFor resolves the price for a distance: the breakpoint with the
// smallest threshold at or above the distance wins, rounding short
// trips up. Distances beyond every breakpoint use the long-distance
// fallback price.
func PriceFor(list *pricingModel.PriceList, distanceKm float64) float64 {
	breakpoints := make([]pricingModel.Breakpoint, len(list.Breakpoints))
	copy(breakpoints, list.Breakpoints)
	sort.Slice(breakpoints, func(i, j int) bool {
		return breakpoints[i].Distance < breakpoints[j].Distance
	})

	for _, bp := range breakpoints {
		if bp.Distance >= distanceKm {
			return bp.Price
		}
	}
	return list.LongDistancePrice
}

// ApplyCoupons stacks coupons onto a base price in the order supplied.
// Flat Rate caps the price at the coupon value, Percentage takes a cut,
// Value subtracts only when the result stays above zero. The result
// never goes negative.
func ApplyCoupons(base float64, coupons []couponModel.Coupon) float64 {
	price := base
	for _, c := range coupons {
		switch c.Type {
		case couponModel.TypeFlatRate:
			if c.Value < price {
				price = c.Value
			}
		case couponModel.TypePercentage:
			price = price * (1 - c.Value/100)
		case couponModel.TypeValue:
			if next := price - c.Value; next > 0 {
				price = next
			}
		}
	}
	if price < 0 {
		price = 0
	}
	return math.Round(price*100) / 100
}

// ValidateCoupons loads and checks every coupon a client wants to
// stack. All must belong to the client, be valid, unexpired and still
// have usages left.
func (e *Engine) ValidateCoupons(clientID uint, ids []uint) ([]couponModel.Coupon, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[uint]bool, len(ids))
	coupons := make([]couponModel.Coupon, 0, len(ids))
	now := time.Now()

	for _, id := range ids {
		if seen[id] {
			return nil, types.NewValidationError("Duplicate coupon in request")
		}
		seen[id] = true

		var c couponModel.Coupon
		err := e.db.First(&c, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError(fmt.Sprintf("Coupon %d not found", id))
		}
		if err != nil {
			return nil, err
		}
		if c.ClientID != clientID {
			return nil, types.NewForbiddenError(fmt.Sprintf("Coupon %d does not belong to this client", id))
		}
		if !c.UsableAt(now) {
			return nil, types.NewConflictError(fmt.Sprintf("Coupon %d is no longer redeemable", id))
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

// Redeem decrements one coupon inside the caller's transaction. The
// conditional update re-checks validity so a concurrent redemption of
// the last usage loses cleanly; unlimited coupons are never
// decremented. The transactions entry is concatenated in SQL so
// parallel redemptions of a multi-use coupon never drop each other's
// log entries.
func (e *Engine) Redeem(tx *gorm.DB, c couponModel.Coupon, deliveryID uint) error {
	now := time.Now()

	res := tx.Model(&couponModel.Coupon{}).
		Where("id = ? AND valid = ? AND usages <> 0 AND expires > ?", c.ID, true, now).
		Updates(map[string]interface{}{
			"usages":       gorm.Expr("CASE WHEN usages > 0 THEN usages - 1 ELSE usages END"),
			"transactions": couponModel.AppendTransactionExpr(deliveryID, now),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NewConflictError(fmt.Sprintf("Coupon %d is no longer redeemable", c.ID))
	}
	return nil
}

// Quote is a priced prospective route.
type Quote struct {
	Distance     float64 `json:"distance"`
	DistanceText string  `json:"distance_text"`
	Duration     string  `json:"duration"`
	BasePrice    float64 `json:"base_price"`
	Price        float64 `json:"price"`
}

// QuoteRoute measures the route and prices it off the latest price
// list, before coupons.
func (e *Engine) QuoteRoute(mode deliveryModel.Mode, from, to deliveryTypes.Coordinate) (*Quote, error) {
	list, err := e.LatestPriceList(mode)
	if err != nil {
		return nil, err
	}

	result, err := e.matrix.Distance(from, to)
	if err != nil {
		return nil, types.NewDependencyError("Could not measure the route", err)
	}

	distanceKm := result.DistanceKm()
	base := PriceFor(list, distanceKm)
	return &Quote{
		Distance:     distanceKm,
		DistanceText: result.Distance,
		Duration:     result.Duration,
		BasePrice:    base,
		Price:        base,
	}, nil
}

// QuoteWithCoupons quotes a route and previews the stacked coupon
// price without redeeming anything.
func (e *Engine) QuoteWithCoupons(clientID uint, req deliveryTypes.QuoteRequest) (*Quote, error) {
	quote, err := e.QuoteRoute(deliveryModel.Mode(req.Mode), req.From, req.To)
	if err != nil {
		return nil, err
	}

	coupons, err := e.ValidateCoupons(clientID, req.Coupons)
	if err != nil {
		return nil, err
	}
	quote.Price = ApplyCoupons(quote.BasePrice, coupons)
	return quote, nil
}
