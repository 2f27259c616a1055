// Package source defines the renditions a player can switch between and ranks them into a catalog.
package source

import "strconv"

// AutoLabel is the label of the synthetic adaptive entry.
const AutoLabel = "auto"

// Source is one playable rendition, or the synthetic auto entry.
type Source struct {
	// Label shown in the quality menu (e.g. "1080p").
	Label string `json:"label"`
	// BaseLabel names the fixed rendition actually playing.
	// On the auto entry it follows whatever is impersonated.
	BaseLabel string `json:"baseLabel,omitempty"`
	// URI is the playback target.
	URI string `json:"src,omitempty"`
	// MediaType is the MIME type of the target, may be empty.
	MediaType string `json:"type,omitempty"`
	// Bitrate in KBps-comparable units.
	Bitrate float64 `json:"bitrate"`
	// HasBitrate reports whether the input carried a bitrate.
	HasBitrate bool `json:"-"`
	// Auto tags the synthetic entry.
	Auto bool `json:"auto,omitempty"`

	prepared bool
}

// String returns the label or the target for display.
func (s *Source) String() string {
	if s.Label != "" {
		return s.Label
	}
	return s.URI
}

// Describe renders the label together with the rendition it plays.
func (s *Source) Describe() string {
	if s.Auto && s.BaseLabel != "" {
		return s.Label + " (" + s.BaseLabel + ")"
	}
	if s.HasBitrate {
		return s.Label + " @ " + strconv.FormatFloat(s.Bitrate, 'f', -1, 64)
	}
	return s.Label
}

// Impersonate copies the playback target of other onto the receiver.
// The receiver keeps its own label and auto tag.
func (s *Source) Impersonate(other *Source) {
	s.BaseLabel = other.BaseLabel
	s.URI = other.URI
	s.MediaType = other.MediaType
	s.Bitrate = other.Bitrate
	s.HasBitrate = other.HasBitrate
}

// Impersonating reports whether the auto entry currently carries a playback target.
func (s *Source) Impersonating() bool {
	return s.Auto && s.URI != ""
}

// Prepare assigns BaseLabel from Label once per entry.
// Entries that were already prepared are left untouched.
func Prepare(entries []*Source) {
	for _, e := range entries {
		if e.prepared || e.Auto {
			continue
		}
		e.BaseLabel = e.Label
		e.prepared = true
	}
}

// Raw is the input form of a source, as found in catalog files.
type Raw struct {
	Label   string   `json:"label" jsonschema:"required,description=Menu label of the rendition"`
	Src     string   `json:"src" jsonschema:"required,description=URI handed to the player"`
	Type    string   `json:"type,omitempty" jsonschema:"description=MIME type of the rendition"`
	Bitrate *float64 `json:"bitrate,omitempty" jsonschema:"minimum=0,description=Bitrate used for ranking"`
}

func (r Raw) toSource() *Source {
	s := &Source{
		Label:     r.Label,
		URI:       r.Src,
		MediaType: r.Type,
	}
	if r.Bitrate != nil {
		s.Bitrate = *r.Bitrate
		s.HasBitrate = true
	}
	return s
}
