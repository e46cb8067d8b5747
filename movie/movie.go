package movie

import (
	"movieapi/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound    = errs.Errorf(errs.ENOTFOUND, "No movie found")
	ErrNoMovies    = errs.Errorf(errs.ENOTFOUND, "No movies found")
	ErrInvalidID   = errs.Errorf(errs.EINVALID, "invalid movie id")
	ErrInvalidRate = errs.Errorf(errs.EINVALID, "invalid rate")
	ErrInvalidBody = errs.Errorf(errs.EINVALID, "invalid JSON body")
	ErrEmptyPatch  = errs.Errorf(errs.EINVALID, "nothing to update")
	ErrUnavailable = errs.Errorf(errs.EUNAVAILABLE, "database unavailable")
)

// Movie is a record of the movies collection. ID is assigned by the store on
// insert and never changes afterwards.
type Movie struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title    string             `json:"title" bson:"title"`
	Genre    string             `json:"genre" bson:"genre"`
	Director string             `json:"director" bson:"director"`
	Year     int                `json:"year" bson:"year"`
	Rating   float64            `json:"rating" bson:"rating"`
	Plot     string             `json:"plot,omitempty" bson:"plot,omitempty"`
	Duration int                `json:"duration,omitempty" bson:"duration,omitempty"`
	Poster   string             `json:"poster,omitempty" bson:"poster,omitempty"`
}

// FieldValue is one validated field of a partial update.
type FieldValue struct {
	Name  string
	Value any
}

// Patch holds the validated fields of a partial update in schema order.
// Fields absent from the input are absent from the patch.
type Patch struct {
	fields []FieldValue
}

func (p Patch) Fields() []FieldValue {
	return p.fields
}

func (p Patch) Len() int {
	return len(p.fields)
}

func (p Patch) IsEmpty() bool {
	return len(p.fields) == 0
}

// Get returns the value of the named field if the patch sets it.
func (p Patch) Get(name string) (any, bool) {
	for _, fv := range p.fields {
		if fv.Name == name {
			return fv.Value, true
		}
	}
	return nil, false
}

// Apply returns a copy of m with the patched fields replaced.
func (p Patch) Apply(m Movie) Movie {
	for _, fv := range p.fields {
		if f, ok := schemaField(fv.Name); ok {
			f.assign(&m, fv.Value)
		}
	}
	return m
}
