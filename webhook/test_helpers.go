package webhook

import "github.com/stretchr/testify/mock"

// MatchWebhook creates a custom matcher for webhook arguments in mocks
func MatchWebhook(matcher func(Webhook) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchHeaders matches Headers arguments holding exactly the given pairs, in order
func MatchHeaders(pairs ...Header) interface{} {
	return mock.MatchedBy(func(h Headers) bool {
		if h.Len() != len(pairs) {
			return false
		}
		i := 0
		for name, value := range h.All() {
			if pairs[i].Name != name || pairs[i].Value != value {
				return false
			}
			i++
		}
		return true
	})
}
