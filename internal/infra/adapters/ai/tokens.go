package ai

import (
	"github.com/pkoukk/tiktoken-go"
)

// CountPromptTokens returns the prompt token count for text under the given
// model's encoding. Best-effort: unknown models fall back to cl100k_base, and
// if no encoding can be loaded a rough bytes/4 estimate is used.
func CountPromptTokens(model, text string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return len(text) / 4
		}
	}
	return len(enc.Encode(text, nil, nil))
}
