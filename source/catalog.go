package source

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// PlayableFunc reports whether the playback target supports a media type.
// Entries for which it returns an error are kept.
type PlayableFunc func(mediaType string) (bool, error)

// Catalog is an ordered set of sources, descending by bitrate, with the auto entry last.
type Catalog struct {
	entries []*Source
}

// Build filters, ranks and prepares raw sources.
func Build(raw []Raw, canPlay PlayableFunc, adaptiveEnabled bool) *Catalog {
	entries := make([]*Source, 0, len(raw))
	for _, r := range raw {
		if canPlay != nil {
			if ok, err := canPlay(r.Type); err == nil && !ok {
				continue
			}
		}
		entries = append(entries, r.toSource())
	}

	slices.SortStableFunc(entries, func(a, b *Source) int {
		if !a.HasBitrate || !b.HasBitrate {
			return 0
		}
		switch {
		case a.Bitrate > b.Bitrate:
			return -1
		case a.Bitrate < b.Bitrate:
			return 1
		default:
			return 0
		}
	})

	Prepare(entries)

	if adaptiveEnabled && len(entries) > 0 {
		entries = append(entries, &Source{Label: AutoLabel, Auto: true})
	}

	return &Catalog{entries: entries}
}

// Len returns the number of entries including the auto entry.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the entry at index i.
func (c *Catalog) At(i int) *Source {
	return c.entries[i]
}

// Entries returns a copy of the ordered entries.
func (c *Catalog) Entries() []*Source {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// Last returns the final entry, or nil for an empty catalog.
func (c *Catalog) Last() *Source {
	if c.Len() == 0 {
		return nil
	}
	return c.entries[len(c.entries)-1]
}

// Auto returns the auto entry if adaptive selection is enabled.
func (c *Catalog) Auto() (*Source, bool) {
	last := c.Last()
	if last == nil || !last.Auto {
		return nil, false
	}
	return last, true
}

// Fixed returns the fixed renditions in ranking order.
func (c *Catalog) Fixed() []*Source {
	if c == nil {
		return nil
	}
	return lo.Filter(c.entries, func(s *Source, _ int) bool {
		return !s.Auto
	})
}

// Lowest returns the lowest-ranked fixed rendition.
func (c *Catalog) Lowest() *Source {
	fixed := c.Fixed()
	if len(fixed) == 0 {
		return nil
	}
	return fixed[len(fixed)-1]
}

// Middle returns the entry at floor((n-1)/2) across all entries.
func (c *Catalog) Middle() *Source {
	if c.Len() == 0 {
		return nil
	}
	return c.entries[(len(c.entries)-1)/2]
}

// Find looks up an entry by label.
func (c *Catalog) Find(label string) (*Source, bool) {
	if c == nil {
		return nil, false
	}
	return lo.Find(c.entries, func(s *Source) bool {
		return s.Label == label
	})
}

// Labels returns the entry labels in order.
func (c *Catalog) Labels() []string {
	if c == nil {
		return nil
	}
	return lo.Map(c.entries, func(s *Source, _ int) string {
		return s.Label
	})
}
