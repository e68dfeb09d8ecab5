package csvw

import (
	"encoding/json"
	"fmt"
)

// Base datatypes emitted by the profiler.
const (
	BaseString  = "string"
	BaseInteger = "integer"
	BaseNumber  = "number"
	BaseBoolean = "boolean"
)

// Datatype is either a bare base name or a derived datatype with
// constraints. It marshals to a JSON string when Simple is true.
type Datatype struct {
	Base    string
	Minimum *float64
	Maximum *float64
	Format  string
	// Simple selects the bare string form.
	Simple bool
}

// String returns the bare datatype name.
func String() Datatype {
	return Datatype{Base: BaseString, Simple: true}
}

// Numeric returns a bounded integer or number datatype.
func Numeric(base string, minimum, maximum float64) Datatype {
	return Datatype{Base: base, Minimum: &minimum, Maximum: &maximum}
}

// Enumerated returns a datatype restricted to the values in format.
func Enumerated(base, format string) Datatype {
	return Datatype{Base: base, Format: format}
}

type datatypeObject struct {
	Base    string   `json:"base"`
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	Format  string   `json:"format,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d Datatype) MarshalJSON() ([]byte, error) {
	if d.Simple {
		return json.Marshal(d.Base)
	}
	return json.Marshal(datatypeObject{
		Base:    d.Base,
		Minimum: d.Minimum,
		Maximum: d.Maximum,
		Format:  d.Format,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Datatype) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*d = Datatype{Base: name, Simple: true}
		return nil
	}
	var obj datatypeObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("datatype must be a string or an object: %w", err)
	}
	*d = Datatype{Base: obj.Base, Minimum: obj.Minimum, Maximum: obj.Maximum, Format: obj.Format}
	return nil
}
