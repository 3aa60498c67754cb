package ai

import (
	"context"
	"strings"

	"github.com/mathieu-neron/vixtube/pkg/hash"
)

var cannedReplies = []string{
	"That's a great question! Short answer: focus on one clear idea per video and keep the first ten seconds tight.",
	"Here's a thought: consistency beats perfection. A steady upload schedule grows an audience faster than occasional polished drops.",
	"Try pairing a strong thumbnail with a curiosity-driven title, then deliver on the promise within the first minute.",
	"Audiences love behind-the-scenes content. Showing your process builds trust and keeps viewers coming back.",
	"Keep it conversational. Talking to one viewer instead of \"everyone\" makes your content feel personal.",
}

var cannedTitles = []string{
	"The Beginner's Guide Nobody Gave You",
	"I Tried This for 30 Days and Here's What Happened",
	"Stop Making These Mistakes Right Now",
	"The Simple Trick That Changed Everything",
	"What the Experts Don't Tell You",
}

// CannedResponder answers from a fixed list without network access. The reply
// is picked by hashing the prompt, so equal prompts get equal replies.
type CannedResponder struct{}

func NewCannedResponder() *CannedResponder {
	return &CannedResponder{}
}

func (CannedResponder) Name() string { return ProviderCanned }

func (CannedResponder) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.Contains(p.System, "one per line") {
		return strings.Join(cannedTitles, "\n"), nil
	}
	return cannedReplies[hash.Bucket(p.System+"\x00"+p.User, len(cannedReplies))], nil
}
