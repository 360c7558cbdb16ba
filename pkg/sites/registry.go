package sites

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrUnknownSite = errors.New("unknown site")

// Site describes one supported website: where to open it and which input
// (by its name attribute) accepts the search term.
type Site struct {
	Name        string `json:"name" yaml:"name"`
	BaseURL     string `json:"baseUrl" yaml:"baseUrl"`
	SearchField string `json:"searchField" yaml:"searchField"`
}

// Registry is an immutable, ordered set of sites. Build it once with
// NewRegistry and share the pointer.
type Registry struct {
	order []string
	sites map[string]Site
}

const DefaultSite = "Python.org"

func NewRegistry() *Registry {
	return newRegistry(
		Site{Name: "Python.org", BaseURL: "http://www.python.org", SearchField: "q"},
		Site{Name: "Google", BaseURL: "http://www.google.com", SearchField: "q"},
		Site{Name: "Wikipedia", BaseURL: "http://www.wikipedia.org", SearchField: "search"},
		Site{Name: "Bing", BaseURL: "http://www.bing.com", SearchField: "q"},
	)
}

func newRegistry(sites ...Site) *Registry {
	for _, s := range sites {
		if s.BaseURL == "" || s.SearchField == "" {
			panic("site " + s.Name + " must have a base url and a search field")
		}
	}
	return &Registry{
		order: lo.Map(sites, func(s Site, _ int) string { return s.Name }),
		sites: lo.KeyBy(sites, func(s Site) string { return s.Name }),
	}
}

// Lookup returns the site registered under name. Names are matched exactly.
func (r *Registry) Lookup(name string) (Site, error) {
	site, ok := r.sites[name]
	if !ok {
		return Site{}, errors.Wrapf(ErrUnknownSite, "%q is not one of %s", name, strings.Join(r.order, ", "))
	}
	return site, nil
}

// Names returns the registered site names in display order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Default() string {
	return DefaultSite
}
