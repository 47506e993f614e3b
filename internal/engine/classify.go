package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// classifyExcerptRunes caps how much transcript the classifier sees.
// The opening of a cooking video is enough to tell it apart from a vlog.
const classifyExcerptRunes = 1000

// ClassifyRecipe asks the model whether the transcript describes a cooking
// recipe. The result is a case-insensitive "yes" substring check on the
// reply — no structured output, no retry on ambiguous answers. A model
// failure returns ErrModelUnavailable (wrapped); the UI lets the user
// override and proceed anyway.
func ClassifyRecipe(ctx context.Context, transcript string) (bool, error) {
	metrics.ClassifyRequests.Add(1)

	excerpt := TruncateRunes(transcript, classifyExcerptRunes)
	prompt := fmt.Sprintf(classifyPrompt, excerpt)

	reply, err := Chat(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(reply), "yes"), nil
}
