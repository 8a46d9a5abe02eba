package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Wire keys owned by the Status encoding. Attributes using these keys are
// not emitted.
const (
	KeyUp      = "up"
	KeyName    = "name"
	KeyDetails = "details"
)

// Attribute keys set by the Guard when an indicator faults.
const (
	AttrState   = "state"
	AttrMessage = "message"
)

// Attribute is a single diagnostic key/value attached to a Status.
type Attribute struct {
	Key   string
	Value any
}

// Status is the immutable result of a health check.
//
// A plain Status carries an up/down outcome, the producing indicator's name
// and an ordered list of attributes. An aggregated Status additionally carries
// child statuses and derives its outcome from them.
//
// The zero value is a down Status without a name.
type Status struct {
	up       bool
	name     string
	attrs    []Attribute
	children []Status
}

// Up creates an up Status for the named indicator.
func Up(name string) Status {
	return Status{up: true, name: name}
}

// Down creates a down Status for the named indicator.
func Down(name string) Status {
	return Status{name: name}
}

// Aggregate creates a composite Status from the given children.
// The composite is up iff every child is up.
func Aggregate(children ...Status) Status {
	kids := make([]Status, len(children))
	copy(kids, children)

	up := true
	for _, c := range kids {
		if !c.Up() {
			up = false
			break
		}
	}
	return Status{up: up, children: kids}
}

// Up reports whether the check succeeded.
func (s Status) Up() bool {
	return s.up
}

// Name returns the name of the indicator that produced the status.
// Aggregated statuses have no name.
func (s Status) Name() string {
	return s.name
}

// IsAggregate reports whether the status was built from child statuses.
func (s Status) IsAggregate() bool {
	return s.children != nil
}

// Children returns a copy of the child statuses in fold order.
func (s Status) Children() []Status {
	if s.children == nil {
		return nil
	}
	out := make([]Status, len(s.children))
	copy(out, s.children)
	return out
}

// Attributes returns a copy of the attributes in insertion order.
func (s Status) Attributes() []Attribute {
	if len(s.attrs) == 0 {
		return nil
	}
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Attr returns the value stored under key.
func (s Status) Attr(key string) (any, bool) {
	for _, a := range s.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// With returns a copy of s with key set to value. An existing key keeps its
// position.
func (s Status) With(key string, value any) Status {
	attrs := make([]Attribute, 0, len(s.attrs)+1)
	replaced := false
	for _, a := range s.attrs {
		if a.Key == key {
			a.Value = value
			replaced = true
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, Attribute{Key: key, Value: value})
	}
	s.attrs = attrs
	return s
}

// WithName returns a copy of s carrying the given indicator name.
func (s Status) WithName(name string) Status {
	s.name = name
	return s
}

// Summary returns the outcome and name of s without attributes or children.
// Its encoding cannot fail.
func (s Status) Summary() Status {
	return Status{up: s.Up(), name: s.name}
}

// String returns a short human readable form, e.g. "database:up".
func (s Status) String() string {
	state := "down"
	if s.Up() {
		state = "up"
	}
	if s.IsAggregate() {
		return fmt.Sprintf("aggregate(%d):%s", len(s.children), state)
	}
	return s.name + ":" + state
}

// MarshalJSON encodes the status as a single object:
//
//	{"up":false,"name":"filesystem","freebytes":500}
//
// Aggregated statuses carry their children under "details".
func (s Status) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"up":`)
	buf.WriteString(strconv.FormatBool(s.Up()))

	if s.name != "" {
		buf.WriteString(`,"name":`)
		name, _ := json.Marshal(s.name)
		buf.Write(name)
	}

	for _, a := range s.attrs {
		if isReservedKey(a.Key) {
			continue
		}
		value, err := json.Marshal(a.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %q: %v", ErrMarshalStatus, a.Key, err)
		}
		key, _ := json.Marshal(a.Key)
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	if s.children != nil {
		buf.WriteString(`,"details":[`)
		for i, c := range s.children {
			if i > 0 {
				buf.WriteByte(',')
			}
			child, err := c.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(child)
		}
		buf.WriteByte(']')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isReservedKey(key string) bool {
	return key == KeyUp || key == KeyName || key == KeyDetails
}
