package ai

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const (
	tokenEncoding = "cl100k_base"
	// runesPerToken approximates the token budget when no encoder is available.
	runesPerToken = 4
)

type tokenEncoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

var (
	encoderOnce sync.Once
	encoder     tokenEncoder
	encoderErr  error
)

func defaultEncoder() (tokenEncoder, error) {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err != nil {
			encoderErr = err
			return
		}
		encoder = enc
	})
	return encoder, encoderErr
}

// truncateTokens cuts text to at most limit tokens. With a nil encoder the
// budget is approximated in runes. It reports whether text was cut.
func truncateTokens(enc tokenEncoder, text string, limit int) (string, bool) {
	if limit <= 0 {
		return text, false
	}

	if enc == nil {
		runes := []rune(text)
		if len(runes) <= limit*runesPerToken {
			return text, false
		}
		return string(runes[:limit*runesPerToken]), true
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text, false
	}
	return enc.Decode(tokens[:limit]), true
}
