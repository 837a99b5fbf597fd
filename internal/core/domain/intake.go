package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEntry      = errors.New("invalid intake entry data")
	ErrEntryNameRequired = errors.New("food_id or custom_name is required")
	ErrInvalidUnits      = errors.New("units must be greater than zero")
	ErrInvalidMeal       = errors.New("invalid meal (must be breakfast, lunch or dinner)")
)

type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
)

func (m MealSlot) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// ClassifyMeal buckets a consumption time by the hour in loc:
// 05:00-11:59 breakfast, 12:00-18:59 lunch, anything else dinner.
func ClassifyMeal(t time.Time, loc *time.Location) MealSlot {
	if t.IsZero() {
		return MealDinner
	}
	if loc != nil {
		t = t.In(loc)
	}
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return MealBreakfast
	case h >= 12 && h < 19:
		return MealLunch
	default:
		return MealDinner
	}
}

type IntakeEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DateISO     string    `json:"date_iso"`
	FoodID      string    `json:"food_id,omitempty"`
	CustomName  string    `json:"custom_name,omitempty"`
	KcalPerUnit float64   `json:"kcal_per_unit"`
	Units       float64   `json:"units"`
	ConsumedAt  time.Time `json:"consumed_at"`
	Meal        MealSlot  `json:"meal"`
}

type NewIntakeEntryParams struct {
	UserID      string
	DateISO     string
	FoodID      string
	CustomName  string
	KcalPerUnit float64
	Units       float64
	ConsumedAt  time.Time
	Meal        MealSlot
}

// NewIntakeEntry builds a validated entry. A zero ConsumedAt becomes now, and
// an empty meal is derived from the consumption time in loc.
func NewIntakeEntry(p NewIntakeEntryParams, now time.Time, loc *time.Location) (*IntakeEntry, error) {
	consumedAt := p.ConsumedAt
	if consumedAt.IsZero() {
		consumedAt = now
	}

	meal := p.Meal
	if meal == "" {
		meal = ClassifyMeal(consumedAt, loc)
	}

	entry := &IntakeEntry{
		ID:          uuid.NewString(),
		UserID:      p.UserID,
		DateISO:     p.DateISO,
		FoodID:      strings.TrimSpace(p.FoodID),
		CustomName:  strings.TrimSpace(p.CustomName),
		KcalPerUnit: p.KcalPerUnit,
		Units:       p.Units,
		ConsumedAt:  consumedAt.UTC(),
		Meal:        meal,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *IntakeEntry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return errors.New("user_id is required")
	}
	if _, err := ParseDateISO(e.DateISO); err != nil {
		return err
	}
	if e.FoodID == "" && e.CustomName == "" {
		return ErrEntryNameRequired
	}
	if math.IsNaN(e.KcalPerUnit) || math.IsInf(e.KcalPerUnit, 0) || e.KcalPerUnit < 0 {
		return ErrInvalidKcal
	}
	if math.IsNaN(e.Units) || math.IsInf(e.Units, 0) || e.Units <= 0 {
		return ErrInvalidUnits
	}
	if !e.Meal.Valid() {
		return ErrInvalidMeal
	}
	return nil
}

func (e *IntakeEntry) Kcal() float64 {
	return e.KcalPerUnit * e.Units
}
