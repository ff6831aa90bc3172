package audit

import (
	"sort"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/uses"
)

// PinTier is the pinning strength a policy entry requires.
type PinTier int

const (
	// TierHash requires a 40-character commit SHA ref.
	TierHash PinTier = iota
	// TierRef permits any ref (branch/tag/SHA) — "pinned" only in the
	// loose sense of referencing something, not immutable.
	TierRef
	// TierAny applies no pinning requirement at all.
	TierAny
)

// policyEntry pairs a pattern with the tier it requires; entries are kept
// sorted most-specific-first within their owner bucket.
type policyEntry struct {
	Pattern uses.RepositoryUsesPattern
	Tier    PinTier
}

// PinningPolicy is the "owner -> sorted [(pattern, policy)], with a
// fallback" tree described in spec §9 "Pattern trees for policies".
type PinningPolicy struct {
	byOwner map[string][]policyEntry
	def     PinTier
}

// NewPinningPolicy builds an empty policy with the given fallback tier.
func NewPinningPolicy(fallback PinTier) *PinningPolicy {
	return &PinningPolicy{byOwner: map[string][]policyEntry{}, def: fallback}
}

// Add registers pattern -> tier, re-sorting that owner's bucket by
// descending specificity (exact-with-ref > exact-path > exact-repo >
// in-repo > in-owner > any).
func (p *PinningPolicy) Add(pattern uses.RepositoryUsesPattern, tier PinTier) {
	owner := strings.ToLower(pattern.Owner)
	p.byOwner[owner] = append(p.byOwner[owner], policyEntry{Pattern: pattern, Tier: tier})
	sort.SliceStable(p.byOwner[owner], func(i, j int) bool {
		return p.byOwner[owner][i].Pattern.Less(p.byOwner[owner][j].Pattern)
	})
}

// TierFor resolves the required pin tier for r: the most specific
// matching pattern in r's owner bucket, then the wildcard ("*") bucket,
// then the policy's fallback.
func (p *PinningPolicy) TierFor(r uses.RepositoryUses) PinTier {
	for _, owner := range []string{strings.ToLower(r.Owner), "*"} {
		for _, e := range p.byOwner[owner] {
			if e.Pattern.Matches(r) {
				return e.Tier
			}
		}
	}
	return p.def
}

// DefaultPinningPolicy is the policy spec §4.9 names: ref-pin suffices for
// actions/*, github/*, dependabot/*; everything else requires a hash pin.
func DefaultPinningPolicy() *PinningPolicy {
	p := NewPinningPolicy(TierHash)
	for _, owner := range []string{"actions", "github", "dependabot"} {
		pat, _ := uses.ParsePattern(owner + "/*")
		p.Add(pat, TierRef)
	}
	return p
}
