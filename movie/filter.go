package movie

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter selects movies. A nil field puts no constraint on that attribute,
// so the zero Filter matches every record.
type Filter struct {
	Genre     *string
	Director  *string
	MinRating *float64
}

func (f Filter) IsEmpty() bool {
	return f.Genre == nil && f.Director == nil && f.MinRating == nil
}

// Matches reports whether m satisfies every constraint of f.
func (f Filter) Matches(m Movie) bool {
	if f.Genre != nil && m.Genre != *f.Genre {
		return false
	}
	if f.Director != nil && m.Director != *f.Director {
		return false
	}
	if f.MinRating != nil && m.Rating < *f.MinRating {
		return false
	}
	return true
}

// GenreFilter constrains the genre only when the parameter was supplied
// with a non-empty value.
func GenreFilter(value string, present bool) Filter {
	if !present || value == "" {
		return Filter{}
	}
	return Filter{Genre: &value}
}

func DirectorFilter(director string) Filter {
	return Filter{Director: &director}
}

// RatingFilter matches movies rated at least raw. raw must be a finite number.
func RatingFilter(raw string) (Filter, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Filter{}, ErrInvalidRate
	}
	return Filter{MinRating: &rate}, nil
}

// ParseID parses a movie identifier in its 24 character hex form.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
