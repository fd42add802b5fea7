// Package legend keeps the categories discovered in the active context and
// folds them into a colour-deduplicated legend.
package legend

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// Deriver computes a category colour from its reference.
type Deriver interface {
	Derive(ref core.ColorReference) core.Color
}

// Category is one classification bucket.
type Category struct {
	Key     string
	Name    string
	Color   core.Color
	members map[core.Handle]struct{}
}

// MemberCount returns how many distinct objects were recorded.
func (c *Category) MemberCount() int { return len(c.members) }

// Members returns the recorded handles in ascending order.
func (c *Category) Members() []core.Handle {
	out := make([]core.Handle, 0, len(c.members))
	for h := range c.members {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Entry is one legend line. Name may hold several newline-joined names.
type Entry struct {
	Name  string
	Color core.Color
}

// Target is a member object to highlight with its category colour.
type Target struct {
	Handle core.Handle
	Key    string
	Color  core.Color
}

// Registry is the mutable category set for one context. It is not safe for
// concurrent use; the owner serialises access.
type Registry struct {
	deriver    Deriver
	categories map[string]*Category
	logger     zerolog.Logger
}

func NewRegistry(deriver Deriver, logger zerolog.Logger) *Registry {
	return &Registry{
		deriver:    deriver,
		categories: make(map[string]*Category),
		logger:     logger.With().Str("component", "legend_registry").Logger(),
	}
}

// Upsert records key, creating the category with a derived colour when it is
// new, and adds member (unless core.NoHandle) with set semantics.
func (r *Registry) Upsert(key, name string, ref core.ColorReference, member core.Handle) {
	cat, ok := r.categories[key]
	if !ok {
		cat = &Category{
			Key:     key,
			Name:    name,
			Color:   r.deriver.Derive(ref),
			members: make(map[core.Handle]struct{}),
		}
		r.categories[key] = cat
		r.logger.Debug().
			Str("key", key).
			Str("ref", ref.String()).
			Str("color", cat.Color.String()).
			Msg("Category added")
	}

	if member != core.NoHandle {
		cat.members[member] = struct{}{}
	}
}

// Clear drops every category.
func (r *Registry) Clear() {
	clear(r.categories)
}

// Len returns the number of categories.
func (r *Registry) Len() int { return len(r.categories) }

// ColorFor looks up the colour of a category without mutating anything.
func (r *Registry) ColorFor(key string) (core.Color, bool) {
	cat, ok := r.categories[key]
	if !ok {
		return core.Transparent, false
	}
	return cat.Color, true
}

// Category returns a copy of the category stored under key.
func (r *Registry) Category(key string) (Category, bool) {
	cat, ok := r.categories[key]
	if !ok {
		return Category{}, false
	}
	cp := *cat
	cp.members = make(map[core.Handle]struct{}, len(cat.members))
	for h := range cat.members {
		cp.members[h] = struct{}{}
	}
	return cp, true
}

// Keys returns every category key in ascending order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.categories))
	for k := range r.categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Categories returns the categories in legend order.
func (r *Registry) Categories() []*Category {
	out := make([]*Category, 0, len(r.categories))
	for _, cat := range r.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := StripMarkup(out[i].Name), StripMarkup(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Build sorts categories by visible name and merges those sharing an exact
// colour into one entry. With counting on, names get a " (n)" member suffix
// when members were recorded.
func (r *Registry) Build(counting bool) []Entry {
	entries := make([]Entry, 0, len(r.categories))
	byColor := make(map[core.Color]int, len(r.categories))

	for _, cat := range r.Categories() {
		name := legendName(cat, counting)
		if i, ok := byColor[cat.Color]; ok {
			entries[i].Name += "\n" + name
			continue
		}
		byColor[cat.Color] = len(entries)
		entries = append(entries, Entry{Name: name, Color: cat.Color})
	}

	return entries
}

// Targets lists every member handle with its category colour, ordered by handle.
func (r *Registry) Targets() []Target {
	var out []Target
	for key, cat := range r.categories {
		for h := range cat.members {
			out = append(out, Target{Handle: h, Key: key, Color: cat.Color})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func legendName(cat *Category, counting bool) string {
	if counting && len(cat.members) > 0 {
		return fmt.Sprintf("%s (%d)", cat.Name, len(cat.members))
	}
	return cat.Name
}

var markupTag = regexp.MustCompile(`<[^<>]*>`)

// StripMarkup removes inline rich-text tags such as <link="X">...</link>.
func StripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return markupTag.ReplaceAllString(s, "")
}
