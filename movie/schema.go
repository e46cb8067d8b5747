package movie

import (
	"encoding/json"
	"errors"
	"io"
	"math"

	"movieapi/errs"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Input is a decoded JSON object as received from a client. Numbers are kept
// as json.Number so integers and decimals can be told apart.
type Input map[string]any

// DecodeInput reads a single JSON object from r.
func DecodeInput(r io.Reader) (Input, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, ErrInvalidBody
	}
	if in == nil {
		return nil, ErrInvalidBody
	}
	return in, nil
}

type kind int

const (
	kindString kind = iota
	kindInteger
	kindNumber
)

func (k kind) String() string {
	switch k {
	case kindInteger:
		return "an integer"
	case kindNumber:
		return "a number"
	default:
		return "a string"
	}
}

type field struct {
	name     string
	kind     kind
	required bool
	rules    string
	assign   func(m *Movie, v any)
}

// schema lists the movie fields in the order they are checked.
var schema = []field{
	{
		name: "title", kind: kindString, required: true, rules: "notblank,max=200",
		assign: func(m *Movie, v any) { m.Title = v.(string) },
	},
	{
		name: "genre", kind: kindString, required: true, rules: "notblank,max=50",
		assign: func(m *Movie, v any) { m.Genre = v.(string) },
	},
	{
		name: "director", kind: kindString, required: true, rules: "notblank,max=100",
		assign: func(m *Movie, v any) { m.Director = v.(string) },
	},
	{
		name: "year", kind: kindInteger, required: true, rules: "gte=1888,lte=2100",
		assign: func(m *Movie, v any) { m.Year = v.(int) },
	},
	{
		name: "rating", kind: kindNumber, required: true, rules: "gte=0,lte=10",
		assign: func(m *Movie, v any) { m.Rating = v.(float64) },
	},
	{
		name: "plot", kind: kindString, rules: "max=2000",
		assign: func(m *Movie, v any) { m.Plot = v.(string) },
	},
	{
		name: "duration", kind: kindInteger, rules: "gte=1,lte=1000",
		assign: func(m *Movie, v any) { m.Duration = v.(int) },
	},
	{
		name: "poster", kind: kindString, rules: "url",
		assign: func(m *Movie, v any) { m.Poster = v.(string) },
	},
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func schemaField(name string) (field, bool) {
	for _, f := range schema {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// ValidateFull checks a candidate record for creation. Every required field
// must be present and well typed; unknown fields are dropped.
func ValidateFull(in Input) (Movie, error) {
	var m Movie
	for _, f := range schema {
		raw, ok := in[f.name]
		if !ok {
			if f.required {
				return Movie{}, errs.Errorf(errs.EINVALID, "%s is required", f.name)
			}
			continue
		}

		v, err := f.check(raw)
		if err != nil {
			return Movie{}, err
		}
		f.assign(&m, v)
	}
	return m, nil
}

// ValidatePartial applies the schema rules only to the fields present in in.
// An empty input yields an empty patch.
func ValidatePartial(in Input) (Patch, error) {
	var p Patch
	for _, f := range schema {
		raw, ok := in[f.name]
		if !ok {
			continue
		}

		v, err := f.check(raw)
		if err != nil {
			return Patch{}, err
		}
		p.fields = append(p.fields, FieldValue{Name: f.name, Value: v})
	}
	return p, nil
}

func (f field) check(raw any) (any, error) {
	v, ok := f.convert(raw)
	if !ok {
		return nil, errs.Errorf(errs.EINVALID, "%s must be %s", f.name, f.kind)
	}

	if err := validate.Var(v, f.rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, errs.Errorf(errs.EINVALID, "%s failed on %s", f.name, verrs[0].Tag())
		}
		return nil, errs.Errorf(errs.EINVALID, "%s is invalid", f.name)
	}
	return v, nil
}

func (f field) convert(raw any) (any, bool) {
	switch f.kind {
	case kindString:
		s, ok := raw.(string)
		return s, ok
	case kindInteger:
		return toInt(raw)
	case kindNumber:
		return toFloat(raw)
	}
	return nil, false
}

func toInt(raw any) (any, bool) {
	switch n := raw.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, false
		}
		return int(i), true
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return int(n), true
	}
	return nil, false
}

func toFloat(raw any) (any, bool) {
	switch n := raw.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	case int:
		return float64(n), true
	}
	return nil, false
}
