package registry

import (
	"sort"
	"time"
)

// CacheFormat tags how a cache artifact is stored.
type CacheFormat string

const (
	FormatCSV     CacheFormat = "csv"     // columnar typed text
	FormatParquet CacheFormat = "parquet" // pre-typed binary
)

// CacheEntry names the cache artifact backing a dataset.
type CacheEntry struct {
	Name   string      `json:"name"`
	Format CacheFormat `json:"format"`
	Object string      `json:"object"` // file name or object key
}

// Item is one independently fetchable unit within a dataset, e.g. a single
// central-bank series code or a single ticker. Immutable once resolved.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

// Dataset maps a public dataset name to its items, categories, adapter and
// cache entry. Treated as configuration: built once, never mutated.
type Dataset struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Adapter      string     `json:"adapter"` // key into the source adapter set
	DefaultStart time.Time  `json:"default_start"`
	Cache        CacheEntry `json:"cache"`
	Items        []Item     `json:"items"` // fetch order
}

// Categories returns the distinct category tags of the dataset, sorted.
func (d *Dataset) Categories() []string {
	seen := make(map[string]bool)
	for _, it := range d.Items {
		seen[it.Category] = true
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// HasCategory reports whether the category narrows to at least one item.
// "all" always matches.
func (d *Dataset) HasCategory(category string) bool {
	if category == "all" {
		return true
	}
	for _, it := range d.Items {
		if it.Category == category {
			return true
		}
	}
	return false
}

// ItemsFor returns the items matching the category, in registry order.
func (d *Dataset) ItemsFor(category string) []Item {
	if category == "all" {
		return d.Items
	}
	var items []Item
	for _, it := range d.Items {
		if it.Category == category {
			items = append(items, it)
		}
	}
	return items
}

// ItemByID returns the item definition for an identifier.
func (d *Dataset) ItemByID(id string) (Item, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Registry is the static dataset catalog, loaded once at process start.
type Registry struct {
	datasets map[string]*Dataset
	order    []string
}

// New builds a registry from dataset definitions, preserving order.
func New(datasets ...*Dataset) *Registry {
	r := &Registry{datasets: make(map[string]*Dataset)}
	for _, ds := range datasets {
		if _, dup := r.datasets[ds.Name]; dup {
			continue
		}
		r.datasets[ds.Name] = ds
		r.order = append(r.order, ds.Name)
	}
	return r
}

// Get looks up a dataset by name.
func (r *Registry) Get(name string) (*Dataset, bool) {
	ds, ok := r.datasets[name]
	return ds, ok
}

// Names lists dataset names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
