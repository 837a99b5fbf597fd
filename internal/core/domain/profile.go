package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrInvalidSex       = errors.New("invalid sex (must be male or female)")
	ErrInvalidActivity  = errors.New("invalid activity level")
	ErrInvalidAge       = errors.New("age must be between 15 and 120")
	ErrInvalidWeight    = errors.New("weight must be between 30 and 300 kg")
	ErrInvalidHeight    = errors.New("height must be between 100 and 250 cm")
	ErrInvalidMacros    = errors.New("macro percentages must be non-negative and sum to 100")
	ErrProfileNameEmpty = errors.New("profile name cannot be empty")
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "sedentary"
	ActivityLight       ActivityLevel = "light"
	ActivityModerate    ActivityLevel = "moderate"
	ActivityIntense     ActivityLevel = "intense"
	ActivityVeryIntense ActivityLevel = "very_intense"
)

var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary:   1.2,
	ActivityLight:       1.375,
	ActivityModerate:    1.55,
	ActivityIntense:     1.725,
	ActivityVeryIntense: 1.9,
}

const (
	MinAge      = 15
	MaxAge      = 120
	MinWeightKg = 30.0
	MaxWeightKg = 300.0
	MinHeightCm = 100.0
	MaxHeightCm = 250.0
)

type MacroSplit struct {
	CarbPct float64 `json:"carb_pct"`
	ProtPct float64 `json:"prot_pct"`
	FatPct  float64 `json:"fat_pct"`
}

type Profile struct {
	UserID    string        `json:"user_id" db:"user_id"`
	Name      string        `json:"name" db:"name"`
	Sex       Sex           `json:"sex" db:"sex"`
	Age       int           `json:"age" db:"age"`
	WeightKg  float64       `json:"weight_kg" db:"weight_kg"`
	HeightCm  float64       `json:"height_cm" db:"height_cm"`
	Activity  ActivityLevel `json:"activity" db:"activity"`
	TDEE      float64       `json:"tdee" db:"tdee"`
	Macros    *MacroSplit   `json:"macros,omitempty" db:"-"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

type ProfileParams struct {
	Name     string
	Sex      Sex
	Age      int
	WeightKg float64
	HeightCm float64
	Activity ActivityLevel
	Macros   *MacroSplit
}

func validateProfile(p ProfileParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProfileNameEmpty
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return ErrInvalidSex
	}
	if _, ok := activityFactors[p.Activity]; !ok {
		return ErrInvalidActivity
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return ErrInvalidAge
	}
	if math.IsNaN(p.WeightKg) || p.WeightKg < MinWeightKg || p.WeightKg > MaxWeightKg {
		return ErrInvalidWeight
	}
	if math.IsNaN(p.HeightCm) || p.HeightCm < MinHeightCm || p.HeightCm > MaxHeightCm {
		return ErrInvalidHeight
	}
	if m := p.Macros; m != nil {
		if m.CarbPct < 0 || m.ProtPct < 0 || m.FatPct < 0 {
			return ErrInvalidMacros
		}
		if math.Abs(m.CarbPct+m.ProtPct+m.FatPct-100) > 0.01 {
			return ErrInvalidMacros
		}
	}
	return nil
}

// CalculateTDEE applies the Mifflin-St Jeor BMR and the activity multiplier,
// rounded to whole kcal.
func CalculateTDEE(weightKg, heightCm float64, age int, sex Sex, activity ActivityLevel) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return math.Round(bmr * activityFactors[activity])
}

func NewProfile(userID string, p ProfileParams, now time.Time) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	now = now.UTC()
	profile := &Profile{UserID: userID, CreatedAt: now}
	profile.apply(p, now)
	return profile, nil
}

func (pr *Profile) Update(p ProfileParams, now time.Time) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	pr.apply(p, now.UTC())
	return nil
}

func (pr *Profile) apply(p ProfileParams, now time.Time) {
	pr.Name = strings.TrimSpace(p.Name)
	pr.Sex = p.Sex
	pr.Age = p.Age
	pr.WeightKg = p.WeightKg
	pr.HeightCm = p.HeightCm
	pr.Activity = p.Activity
	pr.Macros = p.Macros
	pr.TDEE = CalculateTDEE(p.WeightKg, p.HeightCm, p.Age, p.Sex, p.Activity)
	pr.UpdatedAt = now
}

// TargetKcal is the daily goal fed to the compliance model. A nil profile
// yields zero, which the model resolves to the default target.
func (pr *Profile) TargetKcal() float64 {
	if pr == nil {
		return 0
	}
	return pr.TDEE
}
