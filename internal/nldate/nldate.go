// Package nldate resolves natural-language date/time references ("tomorrow
// at 3 PM") to absolute moments.
package nldate

import (
	"time"

	dateparser "github.com/markusmobius/go-dateparser"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Extractor tries two parsing strategies in a fixed order: go-dateparser
// first, then the rules-based when parser. First success wins. The order is
// a tie-break policy, not an optimization — the parsers can disagree on
// ambiguous input such as "5/3".
type Extractor struct {
	w *when.Parser
}

func New() *Extractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Extractor{w: w}
}

// Extract returns the moment referenced by text, relative to now. The
// returned time keeps whatever zone the winning parser produced; callers
// must not assume UTC. Text with no discoverable date/time returns
// ok=false — that is a normal outcome, never an error.
func (e *Extractor) Extract(text string, now time.Time) (time.Time, bool) {
	cfg := &dateparser.Configuration{CurrentTime: now}
	if dt, err := dateparser.Parse(cfg, text); err == nil && !dt.Time.IsZero() {
		return dt.Time, true
	}

	r, err := e.w.Parse(text, now)
	if err == nil && r != nil {
		return r.Time, true
	}
	return time.Time{}, false
}
