// Package hyperlink maps OSC 8 hyperlinks to the small integer IDs stored
// in page hyperlink tables.
package hyperlink

import (
	"github.com/cespare/xxhash/v2"

	"github.com/dshills/termcore/internal/screen/offsetmap"
)

// Link is one OSC 8 hyperlink. ID is the optional id= parameter used to
// join the cells of a link split across lines.
type Link struct {
	ID  string
	URI string
}

func (l Link) hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(l.ID)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(l.URI)
	return d.Sum64()
}

// Registry interns links. IDs start at 1; 0 means no link.
type Registry struct {
	links  []Link
	byHash *offsetmap.Map[uint64, uint32]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byHash: offsetmap.New[uint64, uint32](offsetmap.IntContext[uint64]{})}
}

// Intern returns the ID of l, registering it if needed. Links without an
// id= parameter are still deduplicated by URI.
func (r *Registry) Intern(l Link) (uint32, error) {
	// Probe successive hashes on collision.
	for h := l.hash(); ; h++ {
		e, err := r.byHash.GetOrPut(h)
		if err != nil {
			return 0, err
		}
		if !e.Found {
			r.links = append(r.links, l)
			*e.Value = uint32(len(r.links))
			return *e.Value, nil
		}
		if r.links[*e.Value-1] == l {
			return *e.Value, nil
		}
	}
}

// Lookup returns the link with the given ID.
func (r *Registry) Lookup(id uint32) (Link, bool) {
	if id == 0 || int(id) > len(r.links) {
		return Link{}, false
	}
	return r.links[id-1], true
}

// Len returns the number of registered links.
func (r *Registry) Len() int {
	return len(r.links)
}
