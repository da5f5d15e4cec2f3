// Package governor implements the condensing engine's mode-selection
// and budget-enforcement stage (spec §4.7): it decides whether a tool
// payload is condensed, tabular-encoded without reduction, passed
// through unchanged, skipped, or reverted, then enforces a final
// token ceiling via binary-search truncation. Grounded on
// condenser.py's truncate_to_token_limit and proxy.py's
// _condense_item decision tree.
package governor

import (
	"fmt"

	"github.com/teriyakichild/mcp-condenser/internal/condense"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/structformat"
	"github.com/teriyakichild/mcp-condenser/internal/tokenizer"
)

// Mode names the Governor's outcome label (spec §GLOSSARY).
type Mode string

const (
	ModeCondense     Mode = "condense"
	ModeTOONOnly     Mode = "toon_only"
	ModeTOONFallback Mode = "toon_fallback"
	ModePassthrough  Mode = "passthrough"
	ModeSkipped      Mode = "skipped"
	ModeReverted     Mode = "reverted"
)

// Policy is the subset of the effective server/tool configuration the
// Governor needs to make its decision; it deliberately excludes
// transport/upstream fields that belong to internal/config.
type Policy struct {
	InTOONOnlyTools   bool
	ToolsUnset        bool
	InTools           bool
	TOONFallback      bool
	MinTokenThreshold int
	RevertIfLarger    bool
	FormatHint        string
	Heuristics        heuristics.Heuristics
}

// Result is the Governor's decision plus the rewritten text.
type Result struct {
	Mode         Mode
	Text         string
	InputTokens  int
	OutputTokens int
	Truncated    bool
}

// Run applies the full decision tree of spec §4.7 to a single text
// payload.
func Run(text string, p Policy, tok tokenizer.Tokenizer) Result {
	v, _, err := structformat.NewRegistry().ParseInput(text, p.FormatHint)
	if err != nil {
		return Result{Mode: ModePassthrough, Text: text}
	}

	inputTokens := tok.Count(text)

	if p.MinTokenThreshold > 0 && inputTokens < p.MinTokenThreshold {
		return Result{Mode: ModeSkipped, Text: text, InputTokens: inputTokens, OutputTokens: inputTokens}
	}

	var mode Mode
	var out string
	switch {
	case p.InTOONOnlyTools:
		mode = ModeTOONOnly
		out = condense.ToonEncode(v)
	case p.ToolsUnset || p.InTools:
		mode = ModeCondense
		out = condense.Condense(v, p.Heuristics)
	case p.TOONFallback:
		mode = ModeTOONFallback
		out = condense.ToonEncode(v)
	default:
		return Result{Mode: ModePassthrough, Text: text, InputTokens: inputTokens, OutputTokens: inputTokens}
	}

	outputTokens := tok.Count(out)
	if p.RevertIfLarger && outputTokens >= inputTokens {
		return Result{Mode: ModeReverted, Text: text, InputTokens: inputTokens, OutputTokens: inputTokens}
	}

	return Result{Mode: mode, Text: out, InputTokens: inputTokens, OutputTokens: outputTokens}
}

// TruncateToTokenLimit binary-searches the longest character prefix
// of text whose token count, plus a measured truncation-notice
// overhead, fits within maxTokens, then appends the notice. Returns
// text unchanged if maxTokens <= 0 or text already fits. Adapted from
// the teacher's internal/tokenizer/budget.go truncateToFit line-
// boundary search, generalized to a character boundary per spec §8
// property 7.
func TruncateToTokenLimit(text string, maxTokens int, tok tokenizer.Tokenizer) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}
	origTokens := tok.Count(text)
	if origTokens <= maxTokens {
		return text, false
	}

	sampleNotice := fmt.Sprintf(
		"\n\n[truncated: output exceeded %d token limit — %d tokens reduced to ~%d]",
		maxTokens, origTokens, maxTokens,
	)
	noticeOverhead := tok.Count(sampleNotice)
	target := maxTokens - noticeOverhead
	if target <= 0 {
		target = 1
	}

	lo, hi := 0, len(text)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if tok.Count(text[:mid]) <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	truncated := text[:lo]
	finalTokens := tok.Count(truncated) + noticeOverhead
	notice := fmt.Sprintf(
		"\n\n[truncated: output exceeded %d token limit — %d tokens reduced to ~%d]",
		maxTokens, origTokens, finalTokens,
	)
	return truncated + notice, true
}
