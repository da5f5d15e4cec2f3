package governor

import (
	"math"

	"github.com/teriyakichild/mcp-condenser/internal/tokenizer"
)

// Stats reports the size of a condensing operation in both characters
// and tokens, for the structured log line and `condense` CLI summary
// spec §6 requires ("reduction percentage"). Grounded on condenser.py's
// stats().
type Stats struct {
	OrigChars int
	CondChars int
	OrigTok   int
	CondTok   int
	CharPct   float64
	TokPct    float64
	Method    string
}

// ComputeStats builds a Stats for the orig -> cond transformation.
// origTokens may be passed in already-computed (as governor.Run's
// Result.InputTokens is) to avoid re-tokenizing the original text.
func ComputeStats(orig, cond string, origTokens int, tok tokenizer.Tokenizer) Stats {
	condTokens := tok.Count(cond)

	s := Stats{
		OrigChars: len(orig),
		CondChars: len(cond),
		OrigTok:   origTokens,
		CondTok:   condTokens,
		Method:    tok.Name(),
	}
	if s.OrigChars > 0 {
		s.CharPct = round1((1 - float64(s.CondChars)/float64(s.OrigChars)) * 100)
	}
	if s.OrigTok > 0 {
		s.TokPct = round1((1 - float64(s.CondTok)/float64(s.OrigTok)) * 100)
	}
	return s
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
