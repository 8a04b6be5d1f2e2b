package generation

import (
	"context"

	"go.uber.org/zap"
)

// Decision names one yes/no sub-decision of a composite. Suffix is appended
// to the composite prompt when the sub-decision is evaluated.
type Decision struct {
	Name   string
	Suffix string
}

// DefaultTweetDecisions are the sub-decisions evaluated for a timeline post.
// Like and retweet are the mandatory members.
var DefaultTweetDecisions = []Decision{
	{Name: "like", Suffix: "\nShould you like this post? Answer with exactly true or false."},
	{Name: "retweet", Suffix: "\nShould you retweet this post? Answer with exactly true or false."},
	{Name: "quote", Suffix: "\nShould you quote this post? Answer with exactly true or false."},
	{Name: "reply", Suffix: "\nShould you reply to this post? Answer with exactly true or false."},
}

// CompositeDecision evaluates each sub-decision sequentially and
// independently via enum-constrained boolean generation. The first two
// decisions are mandatory: any failure anywhere yields a nil result rather
// than a partial mapping, so callers never act on a half-decided bundle. A
// nil result means "no decision could be made" and is distinct from an error.
func (g *Generator) CompositeDecision(ctx context.Context, prompt string, decisions []Decision) map[string]bool {
	g.logger.Debug("generating composite decision",
		zap.String("function", "CompositeDecision"),
		zap.Int("decisions", len(decisions)),
	)

	if len(decisions) < 2 {
		g.logger.Warn("composite decision requires at least two sub-decisions",
			zap.Int("decisions", len(decisions)),
		)
		return nil
	}

	resolved := make(map[string]bool, len(decisions))
	for _, decision := range decisions {
		value, err := g.Boolean(ctx, prompt+decision.Suffix)
		if err != nil {
			g.logger.Warn("sub-decision failed, discarding composite",
				zap.String("decision", decision.Name),
				zap.Error(err),
			)
			return nil
		}

		resolved[decision.Name] = value
	}

	return resolved
}

// TweetActions holds the resolved action bundle for a timeline post.
type TweetActions struct {
	Like    bool `json:"like"`
	Retweet bool `json:"retweet"`
	Quote   bool `json:"quote"`
	Reply   bool `json:"reply"`
}

// GenerateTweetActions evaluates DefaultTweetDecisions against the prompt.
// A nil result means no action bundle could be decided.
func (g *Generator) GenerateTweetActions(ctx context.Context, prompt string) *TweetActions {
	resolved := g.CompositeDecision(ctx, prompt, DefaultTweetDecisions)
	if resolved == nil {
		return nil
	}

	return &TweetActions{
		Like:    resolved["like"],
		Retweet: resolved["retweet"],
		Quote:   resolved["quote"],
		Reply:   resolved["reply"],
	}
}
