package expr

import "strings"

// SpoofableActorNameContexts are GitHub Actions contexts whose string value
// an external contributor can set without write access to the repository
// (e.g. by opening a pull request from a fork under a chosen username).
var SpoofableActorNameContexts = []string{
	"github.actor",
	"github.triggering_actor",
	"github.event.pull_request.sender.login",
	"github.event.pull_request.user.login",
	"github.event.issue.user.login",
	"github.event.comment.user.login",
}

// SpoofableActorIDContexts are the numeric-ID counterparts of
// SpoofableActorNameContexts.
var SpoofableActorIDContexts = []string{
	"github.actor_id",
	"github.event.pull_request.sender.id",
	"github.event.pull_request.user.id",
}

// BotActorIDs maps a well-known bot login to its stable numeric actor ID,
// used to recognize "github.actor_id == '49699333'" as an equivalent of
// "github.actor == 'dependabot[bot]'".
var BotActorIDs = map[string]string{
	"dependabot[bot]":      "49699333",
	"github-actions[bot]":  "41898282",
	"renovate[bot]":        "29139614",
	"dependabot-preview[bot]": "27856297",
}

func isSpoofableContext(ctx string) bool {
	ctx = strings.ToLower(ctx)
	for _, c := range SpoofableActorNameContexts {
		if ctx == c {
			return true
		}
	}
	for _, c := range SpoofableActorIDContexts {
		if ctx == c {
			return true
		}
	}
	return false
}

// BotConditionMatch records a detected "ctx == bot-identity" comparison
// inside an `if:` expression, along with whether it dominates the overall
// truth of the condition.
type BotConditionMatch struct {
	Node       BinOp
	Context    string
	BotLiteral string
	Dominating bool
}

// FindSpoofableActorFragments walks n with the "dominating" flag described
// in the data-flow/spoofable-context analysis:
//
//   - '||' preserves domination on both branches (if either is true, the
//     whole expression is true, so a match inside is dominating iff the
//     enclosing context was dominating);
//   - '==' is trivially dominating on its own (a single equality check is
//     exactly the bot condition being searched for);
//   - any other binary operator breaks domination for its children;
//   - '!' is modeled conservatively as non-dominating (negation inverts
//     truth, so a match beneath it cannot be assumed to force the outer
//     expression true).
func FindSpoofableActorFragments(n Node) []BotConditionMatch {
	var out []BotConditionMatch
	walkSpoofable(n, true, &out)
	return out
}

func walkSpoofable(n Node, dominating bool, out *[]BotConditionMatch) {
	switch v := n.(type) {
	case BinOp:
		switch v.Op {
		case Or:
			walkSpoofable(v.LHS, dominating, out)
			walkSpoofable(v.RHS, dominating, out)
		case Eq:
			if match, ok := matchBotEquality(v); ok {
				match.Dominating = dominating
				*out = append(*out, match)
				return
			}
			walkSpoofable(v.LHS, false, out)
			walkSpoofable(v.RHS, false, out)
		default:
			walkSpoofable(v.LHS, false, out)
			walkSpoofable(v.RHS, false, out)
		}
	case UnOp:
		walkSpoofable(v.Expr, false, out)
	}
}

// matchBotEquality recognizes `ctx == 'NAME[bot]'` or `ctx == 'ACTOR_ID'`
// (in either operand order) where ctx is a known spoofable context and the
// literal is a recognized bot identity.
func matchBotEquality(b BinOp) (BotConditionMatch, bool) {
	ctxNode, litNode := b.LHS, b.RHS
	ctx, isCtx := asContextString(ctxNode)
	lit, isLit := asStringLiteral(litNode)
	if !isCtx || !isLit {
		ctxNode, litNode = b.RHS, b.LHS
		ctx, isCtx = asContextString(ctxNode)
		lit, isLit = asStringLiteral(litNode)
	}
	if !isCtx || !isLit || !isSpoofableContext(ctx) {
		return BotConditionMatch{}, false
	}
	if !isKnownBotIdentity(ctx, lit) {
		return BotConditionMatch{}, false
	}
	return BotConditionMatch{Node: b, Context: ctx, BotLiteral: lit}, true
}

func isKnownBotIdentity(ctx, lit string) bool {
	for name, id := range BotActorIDs {
		if strings.EqualFold(lit, name) {
			return true
		}
		if lit == id {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(lit), "[bot]")
}

func asContextString(n Node) (string, bool) {
	switch v := n.(type) {
	case Context:
		return v.String(), true
	case Identifier:
		return v.Name, true
	default:
		return "", false
	}
}

func asStringLiteral(n Node) (string, bool) {
	if l, ok := n.(Literal); ok && l.Kind == KindString {
		return l.Str, true
	}
	return "", false
}
