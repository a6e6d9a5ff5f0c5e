package pricing

import (
	"testing"
	"time"

	couponModel "delivery-backend/models/coupon"
	pricingModel "delivery-backend/models/pricing"
)

func testPriceList() *pricingModel.PriceList {
	return &pricingModel.PriceList{
		Mode: "Motorcycle",
		Breakpoints: pricingModel.BreakpointList{
			{Distance: 5, Price: 500},
			{Distance: 10, Price: 800},
			{Distance: 20, Price: 1200},
		},
		LongDistancePrice: 2000,
	}
}

func TestPriceForRoundsUpToNextBreakpoint(t *testing.T) {
	list := testPriceList()

	cases := []struct {
		distance float64
		want     float64
	}{
		{1, 500},
		{5, 500},
		{5.1, 800},
		{7, 800},
		{10, 800},
		{19.9, 1200},
		{20, 1200},
	}
	for _, tc := range cases {
		if got := PriceFor(list, tc.distance); got != tc.want {
			t.Errorf("PriceFor(%v) = %v, want %v", tc.distance, got, tc.want)
		}
	}
}

func TestPriceForLongDistanceFallback(t *testing.T) {
	list := testPriceList()
	if got := PriceFor(list, 20.1); got != 2000 {
		t.Errorf("PriceFor(20.1) = %v, want fallback 2000", got)
	}
	if got := PriceFor(list, 150); got != 2000 {
		t.Errorf("PriceFor(150) = %v, want fallback 2000", got)
	}
}

func TestPriceForUnsortedBreakpoints(t *testing.T) {
	list := &pricingModel.PriceList{
		Breakpoints: pricingModel.BreakpointList{
			{Distance: 20, Price: 1200},
			{Distance: 5, Price: 500},
			{Distance: 10, Price: 800},
		},
		LongDistancePrice: 2000,
	}
	if got := PriceFor(list, 7); got != 800 {
		t.Errorf("PriceFor(7) on unsorted list = %v, want 800", got)
	}
}

func TestApplyCouponsStacksInOrder(t *testing.T) {
	coupons := []couponModel.Coupon{
		{Type: couponModel.TypePercentage, Value: 10},
		{Type: couponModel.TypeValue, Value: 100},
	}
	if got := ApplyCoupons(1000, coupons); got != 800 {
		t.Errorf("ApplyCoupons(1000) = %v, want 800", got)
	}

	// Reversed order gives a different price; stacking is order
	// sensitive on purpose.
	reversed := []couponModel.Coupon{coupons[1], coupons[0]}
	if got := ApplyCoupons(1000, reversed); got != 810 {
		t.Errorf("ApplyCoupons(1000) reversed = %v, want 810", got)
	}
}

func TestApplyCouponsFlatRateCapsOnly(t *testing.T) {
	flat := []couponModel.Coupon{{Type: couponModel.TypeFlatRate, Value: 300}}
	if got := ApplyCoupons(1000, flat); got != 300 {
		t.Errorf("flat rate on 1000 = %v, want 300", got)
	}
	// A flat rate above the price never raises it.
	if got := ApplyCoupons(200, flat); got != 200 {
		t.Errorf("flat rate on 200 = %v, want 200", got)
	}
}

func TestApplyCouponsValueNeverZeroesPrice(t *testing.T) {
	value := []couponModel.Coupon{{Type: couponModel.TypeValue, Value: 500}}
	// Subtraction that would not leave a positive price is skipped.
	if got := ApplyCoupons(400, value); got != 400 {
		t.Errorf("value 500 on 400 = %v, want 400", got)
	}
	if got := ApplyCoupons(500, value); got != 500 {
		t.Errorf("value 500 on 500 = %v, want 500", got)
	}
	if got := ApplyCoupons(600, value); got != 100 {
		t.Errorf("value 500 on 600 = %v, want 100", got)
	}
}

func TestApplyCouponsNeverNegative(t *testing.T) {
	coupons := []couponModel.Coupon{
		{Type: couponModel.TypePercentage, Value: 100},
	}
	if got := ApplyCoupons(1000, coupons); got != 0 {
		t.Errorf("100%% off = %v, want 0", got)
	}
}

func TestCouponUsableAt(t *testing.T) {
	now := time.Now()
	base := couponModel.Coupon{
		Type:    couponModel.TypeValue,
		Value:   100,
		Usages:  1,
		Valid:   true,
		Expires: now.Add(time.Hour),
	}

	if !base.UsableAt(now) {
		t.Error("fresh coupon should be usable")
	}

	spent := base
	spent.Usages = 0
	if spent.UsableAt(now) {
		t.Error("spent coupon should not be usable")
	}

	unlimited := base
	unlimited.Usages = couponModel.UnlimitedUsages
	if !unlimited.UsableAt(now) {
		t.Error("unlimited coupon should be usable")
	}

	expired := base
	expired.Expires = now.Add(-time.Minute)
	if expired.UsableAt(now) {
		t.Error("expired coupon should not be usable")
	}

	cancelled := base
	cancelled.Valid = false
	if cancelled.UsableAt(now) {
		t.Error("cancelled coupon should not be usable")
	}
}
