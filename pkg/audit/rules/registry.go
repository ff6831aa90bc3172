package rules

import "github.com/hardenedci/actionaudit/pkg/audit"

// Registry lists every representative audit (spec §4.9) in the order
// audit.NewRunner will construct and dispatch them. Finding order for a
// single step/job follows this slice's order after the traversal order
// spec §5 fixes (job order, step order).
var Registry = []audit.Constructor{
	NewUnpinnedUses,
	NewTemplateInjection,
	NewBotConditions,
	NewArtipacked,
	NewCachePoisoning,
	NewImpostorCommit,
	NewKnownVulnerableActions,
	NewUseTrustedPublishing,
}
