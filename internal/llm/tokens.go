package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding lazily loads the cl100k_base encoding used to estimate
// prompt length before sending, since the real provider's tokenizer is
// unknown from outside its contract.
var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func encoding() (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding("cl100k_base")
	})
	return enc, encErr
}

// truncateToTokenBudget trims the sanitized prompt body so that, combined
// with the academic preamble already applied, the whole prompt fits within
// maxTokens. The preamble itself is never truncated: only the body that
// follows it. If the tokenizer is unavailable, the prompt is returned
// unchanged rather than failing the call.
func truncateToTokenBudget(shapedPrompt string, preambleLen int, maxTokens int) string {
	if maxTokens <= 0 {
		return shapedPrompt
	}
	tk, err := encoding()
	if err != nil {
		return shapedPrompt
	}
	tokens := tk.Encode(shapedPrompt, nil, nil)
	if len(tokens) <= maxTokens {
		return shapedPrompt
	}
	body := shapedPrompt[preambleLen:]
	bodyTokens := tk.Encode(body, nil, nil)
	overBy := len(tokens) - maxTokens
	keep := len(bodyTokens) - overBy
	if keep < 0 {
		keep = 0
	}
	truncatedBody := tk.Decode(bodyTokens[:keep])
	return shapedPrompt[:preambleLen] + truncatedBody
}
