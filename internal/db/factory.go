package db

import (
	"context"

	"github.com/eduardofuncao/sqlhelp/internal/config"
)

// Factory resolves a profile from the filesystem and opens connections for it.
// Nothing is cached: every call locates and reads the document again.
type Factory struct {
	Start  string
	Policy config.SearchPolicy
	Alias  string
}

func NewFactory(start string, policy config.SearchPolicy, alias string) *Factory {
	if alias == "" {
		alias = config.DefaultAlias
	}
	return &Factory{
		Start:  start,
		Policy: policy,
		Alias:  alias,
	}
}

// WithAlias returns a copy of the factory bound to another profile.
func (f *Factory) WithAlias(alias string) *Factory {
	return NewFactory(f.Start, f.Policy, alias)
}

func (f *Factory) Locate() (config.Location, error) {
	return config.Locate(f.Start, f.Policy)
}

// Document locates and loads the profile document.
func (f *Factory) Document() (*config.Document, error) {
	loc, err := f.Locate()
	if err != nil {
		return nil, err
	}
	return config.Load(loc.Path)
}

// Profile returns the connection parameters for the factory's alias.
// No connection is attempted.
func (f *Factory) Profile() (config.Profile, error) {
	doc, err := f.Document()
	if err != nil {
		return config.Profile{}, err
	}
	return doc.Lookup(f.Alias)
}

// Connect opens a new connection for the factory's alias.
func (f *Factory) Connect(ctx context.Context) (*Connection, error) {
	p, err := f.Profile()
	if err != nil {
		return nil, err
	}
	return Open(ctx, p)
}
