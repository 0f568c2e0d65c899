// Package registry is the bundled reference identity registry. It stands in
// for a national ID lookup and is used only to pre-fill registration forms;
// nothing here is ever written back.
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed identities.json
var identitiesJSON []byte

type Identity struct {
	Aadhaar string `json:"aadhaar"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Phone   string `json:"phone"`
}

type Registry struct {
	byNumber map[string]Identity
}

// New builds a registry from the given records. Later duplicates win.
func New(records []Identity) *Registry {
	r := &Registry{byNumber: make(map[string]Identity, len(records))}
	for _, rec := range records {
		r.byNumber[rec.Aadhaar] = rec
	}
	return r
}

// Default loads the bundled registry.
func Default() (*Registry, error) {
	var records []Identity
	if err := json.Unmarshal(identitiesJSON, &records); err != nil {
		return nil, fmt.Errorf("decode bundled identities: %w", err)
	}
	return New(records), nil
}

// MustDefault is Default for program start-up.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the identity registered under number.
func (r *Registry) Lookup(number string) (Identity, bool) {
	id, ok := r.byNumber[number]
	return id, ok
}

// All returns every record in no particular order.
func (r *Registry) All() []Identity {
	out := make([]Identity, 0, len(r.byNumber))
	for _, id := range r.byNumber {
		out = append(out, id)
	}
	return out
}
