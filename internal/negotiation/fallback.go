package negotiation

import (
	"fmt"
	"regexp"
	"strconv"
)

// offerPattern matches an optional dollar sign followed by an integer or decimal amount.
var offerPattern = regexp.MustCompile(`\$?(\d+(\.\d+)?)`)

const (
	// AcceptThreshold is the largest discount percentage accepted outright.
	AcceptThreshold = 15.0
	// ModerateThreshold is the largest discount percentage answered with the 15% counter.
	ModerateThreshold = 25.0

	moderateCounterRate = 0.85
	lowCounterRate      = 0.80
)

// Decision is the branch taken by the fallback calculator.
type Decision string

const (
	DecisionGreeting        Decision = "greeting"
	DecisionAccept          Decision = "accept"
	DecisionCounterModerate Decision = "counter_moderate"
	DecisionCounterLow      Decision = "counter_low"
)

// Outcome is the result of a fallback negotiation round.
type Outcome struct {
	Decision    Decision
	Offer       float64
	Counter     float64
	DiscountPct float64
	Text        string
}

// LastCustomerMessage returns the content of the most recent user message,
// or an empty string if the customer has not spoken yet.
func LastCustomerMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// ParseOffer extracts the first amount found in text.
func ParseOffer(text string) (float64, bool) {
	m := offerPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// DiscountPct returns how far offer is below listPrice, in percent.
func DiscountPct(listPrice, offer float64) float64 {
	return (listPrice - offer) / listPrice * 100
}

// Respond computes the rule-based reply to the conversation without calling any model.
// It is a pure function of its inputs.
func Respond(nc Context, messages []Message) Outcome {
	offer, ok := ParseOffer(LastCustomerMessage(messages))
	if !ok {
		return Outcome{
			Decision: DecisionGreeting,
			Text: fmt.Sprintf("Thanks for your interest in the %s! The list price is $%.2f, but I'm authorized to offer some flexibility. Would you like to make an offer?",
				nc.ProductName, nc.ListPrice),
		}
	}

	out := Outcome{
		Offer:       offer,
		DiscountPct: DiscountPct(nc.ListPrice, offer),
	}

	switch {
	case out.DiscountPct <= AcceptThreshold:
		out.Decision = DecisionAccept
		out.Text = fmt.Sprintf("That's a fair offer! I can accept $%.2f for the %s. Would you like to proceed with the purchase?",
			offer, nc.ProductName)
	case out.DiscountPct <= ModerateThreshold:
		out.Decision = DecisionCounterModerate
		out.Counter = nc.ListPrice * moderateCounterRate
		out.Text = fmt.Sprintf("I appreciate your offer of $%.2f, but that's a bit low for our premium %s. I can go as low as $%.2f, which is 15%% off the list price. Our gear is built to last a lifetime, and we stand behind it with our warranty.",
			offer, nc.ProductName, out.Counter)
	default:
		out.Decision = DecisionCounterLow
		out.Counter = nc.ListPrice * lowCounterRate
		out.Text = fmt.Sprintf("I understand you're looking for a good deal, but $%.2f is too low for the %s. The quality and durability of our gear justifies the price. The best I can do is $%.2f, which is already a significant 20%% discount.",
			offer, nc.ProductName, out.Counter)
	}
	return out
}
