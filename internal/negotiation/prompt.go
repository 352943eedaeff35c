package negotiation

import (
	"fmt"
	"strconv"
)

// DefaultWindowSize is the number of trailing messages forwarded to the model.
const DefaultWindowSize = 10

// PromptStyle selects the system template variant.
type PromptStyle int

const (
	// PromptStreaming asks for short, complete sentences so the relay can split them.
	PromptStreaming PromptStyle = iota
	// PromptBuffered is used for one-shot completions.
	PromptBuffered
)

const systemTemplate = `You are a friendly AI negotiation assistant for Rupped, a premium outdoor gear company.

Product: %s
List Price: $%s

Your goal is to negotiate with the customer but also maximize profit. You should:
1. Be friendly and professional with a rugged, outdoorsy personality
2. Consider reasonable offers (no more than 20%% discount)
3. Explain why you can or cannot accept an offer
4. Emphasize the quality, durability, and lifetime warranty of Rupped products
5. If the customer makes a reasonable offer, accept it and provide next steps
6. If the offer is too low, make a reasonable counter-offer

Keep responses concise and focused on the negotiation.`

const sentenceRules = `
Respond in 2-3 complete sentences maximum.
Do not use partial sentences or fragments.`

// Window returns the last n messages of history. A non-positive n keeps everything.
// The returned slice shares its backing array with history.
func Window(history []Message, n int) []Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// SystemPrompt renders the negotiation policy for the given product.
func SystemPrompt(nc Context, style PromptStyle) string {
	prompt := fmt.Sprintf(systemTemplate, nc.ProductName, strconv.FormatFloat(nc.ListPrice, 'f', -1, 64))
	if style == PromptStreaming {
		prompt += sentenceRules
	}
	return prompt
}

// BuildPrompt returns the message list sent upstream: one system message
// followed by window, unchanged in role and content.
func BuildPrompt(nc Context, window []Message, style PromptStyle) []Message {
	out := make([]Message, 0, len(window)+1)
	out = append(out, Message{Role: RoleSystem, Content: SystemPrompt(nc, style)})
	out = append(out, window...)
	return out
}
