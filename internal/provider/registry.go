package provider

import "github.com/willi202202/rechnungen-sort/internal/config"

// Registry holds the providers in priority order. Classification is
// first-match-wins: the order below is the defined disambiguation rule when a
// document would satisfy several keyword sets, so it is part of the contract,
// not an implementation detail.
type Registry struct {
	providers []Provider
}

func NewRegistry(cfg config.Config) *Registry {
	return &Registry{providers: []Provider{
		NewSZKB(),
		NewSwisscom(),
		NewSwisscard(cfg.CardUseMinimumPayment),
		NewStrom(),
	}}
}

// Classify returns the first provider whose keyword set is fully present in
// the text, or nil. A nil result is the normal outcome for documents of an
// unknown vendor, not an error.
func (r *Registry) Classify(text string) Provider {
	for _, p := range r.providers {
		if p.Matches(text) {
			return p
		}
	}
	return nil
}

func (r *Registry) Providers() []Provider {
	return r.providers
}

// ByName returns the registered provider with the given name, or nil.
func (r *Registry) ByName(name string) Provider {
	for _, p := range r.providers {
		if p.Name() == name {
			return p
		}
	}
	return nil
}
