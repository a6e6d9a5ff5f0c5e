package utils

import (
	"testing"
	"time"
)

func TestCalculateAge(t *testing.T) {
	at := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dob    time.Time
		years  int
		months int
		days   int
	}{
		{
			name:  "birthday today",
			dob:   time.Date(1996, time.March, 14, 0, 0, 0, 0, time.UTC),
			years: 30, months: 0, days: 0,
		},
		{
			name:  "day before the birthday",
			dob:   time.Date(1996, time.March, 15, 0, 0, 0, 0, time.UTC),
			years: 29, months: 11, days: 27,
		},
		{
			name:  "born yesterday",
			dob:   time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC),
			years: 0, months: 0, days: 1,
		},
		{
			name:  "month borrow across year end",
			dob:   time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
			years: 0, months: 2, days: 22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, months, days := CalculateAge(tt.dob, at)
			if years != tt.years || months != tt.months || days != tt.days {
				t.Errorf("CalculateAge = %d/%d/%d, want %d/%d/%d",
					years, months, days, tt.years, tt.months, tt.days)
			}
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"01712345678", "+8801712345678", " 01912345678 "}
	for _, phone := range valid {
		if !ValidatePhoneNumber(phone) {
			t.Errorf("ValidatePhoneNumber(%q) = false, want true", phone)
		}
	}

	invalid := []string{"", "0171234567", "017123456789", "02712345678", "+8901712345678"}
	for _, phone := range invalid {
		if ValidatePhoneNumber(phone) {
			t.Errorf("ValidatePhoneNumber(%q) = true, want false", phone)
		}
	}
}
