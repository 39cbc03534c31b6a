// Package prov holds the PROV-JSON container type exchanged with the
// ProvStore API. The store accepts and serves whole documents; nothing in
// this SDK inspects individual provenance records, so Document wraps the
// decoded JSON container rather than modelling assertions.
package prov

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Document is a provenance document (or bundle) in PROV-JSON container
// form. The zero value is empty; use FromJSON or FromContainer to build
// one. Document implements json.Marshaler/json.Unmarshaler, so embedding a
// *Document in a request payload serializes it as its container.
type Document struct {
	container map[string]any
}

// FromJSON decodes a PROV-JSON document. Numbers are kept as json.Number
// so re-encoding preserves their original form. The root must be a JSON
// object.
func FromJSON(data []byte) (*Document, error) {
	container, err := decodeContainer(data)
	if err != nil {
		return nil, err
	}
	return &Document{container: container}, nil
}

// FromContainer adopts an already-decoded container. The map is shared
// with the caller, not copied.
func FromContainer(container map[string]any) *Document {
	return &Document{container: container}
}

// Container returns the underlying container map. The map is shared with
// the Document; treat it as read-only unless the Document is discarded.
func (d *Document) Container() map[string]any {
	if d == nil {
		return nil
	}
	return d.container
}

// MarshalJSON encodes the document as its PROV-JSON container.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || d.container == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.container)
}

// UnmarshalJSON replaces the document with the decoded container.
func (d *Document) UnmarshalJSON(data []byte) error {
	container, err := decodeContainer(data)
	if err != nil {
		return err
	}
	d.container = container
	return nil
}

// Equal reports whether two documents encode the same PROV-JSON container.
// Both sides are normalised through a marshal/unmarshal cycle first, so a
// hand-built container compares equal to its fetched round trip. A nil
// container compares as an empty document.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	a, err := normalize(d.container)
	if err != nil {
		return false
	}
	b, err := normalize(other.container)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// decodeContainer parses data into a container map, rejecting anything
// whose root is not a JSON object.
func decodeContainer(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("prov: decode document: %w", err)
	}
	container, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("prov: document root must be a JSON object, got %T", root)
	}
	return container, nil
}

func normalize(container map[string]any) (map[string]any, error) {
	// A nil map would marshal to null, which decodeContainer rejects.
	if container == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(container)
	if err != nil {
		return nil, err
	}
	return decodeContainer(data)
}
