// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify derives a SourceType for each retrieved citation and
// builds the typed metadata view for that type.
//
// Precedence, first match wins: an explicit metadata.type hint, then the
// fatwa content_type, then namespace registry membership, then the
// classical default for records with neither type nor namespace.
package classify

import (
	"strings"

	"github.com/pdiddy/citerank/internal/registry"
	"github.com/pdiddy/citerank/pkg/types"
)

// typeAliases maps lower-cased metadata.type hints to source types.
var typeAliases = map[string]types.SourceType{
	"classic": types.SourceClassical,
	"cls":     types.SourceClassical,
	"modern":  types.SourceModern,
	"mod":     types.SourceModern,
	"risale":  types.SourceRisale,
	"ris":     types.SourceRisale,
	"youtube": types.SourceVideo,
	"yt":      types.SourceVideo,
}

// Classifier maps citations to source types using a namespace registry.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	reg *registry.Registry
}

// New returns a Classifier backed by reg. A nil reg uses registry.Default().
func New(reg *registry.Registry) *Classifier {
	if reg == nil {
		reg = registry.Default()
	}
	return &Classifier{reg: reg}
}

// Registry returns the registry the classifier consults.
func (c *Classifier) Registry() *registry.Registry { return c.reg }

// Classify returns the source type of cit. It never fails: unrecognized
// explicit hints are returned upper-cased, and anything else falls back to
// CLS or UNKNOWN.
func (c *Classifier) Classify(cit types.Citation) types.SourceType {
	hint := cit.Metadata.String(types.MetaType)
	if hint != "" {
		if t, ok := typeAliases[strings.ToLower(hint)]; ok {
			return t
		}
		return types.SourceType(strings.ToUpper(hint))
	}

	if cit.Metadata.String(types.MetaContentType) == types.ContentTypeFatwa {
		return types.SourceFatwa
	}

	if cit.Namespace != "" {
		if t, ok := c.reg.Lookup(cit.Namespace); ok {
			return t
		}
		return types.SourceUnknown
	}

	// Classical ingestion historically left out both type and namespace.
	return types.SourceClassical
}
