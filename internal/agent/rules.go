package agent

import (
	"strings"
	"time"
)

type ActionKind int

const (
	ActionUnrecognized ActionKind = iota
	ActionCreate
	ActionFetch
)

// Action is the structured intent derived from one generated reply.
type Action struct {
	Kind        ActionKind
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	MaxResults  int64
}

// DefaultFetchLimit caps a Fetch action's event listing.
const DefaultFetchLimit = 10

// The classifier is data, not code: ordered case-insensitive substring
// rules, first match wins. Negated or multi-intent phrasing ("don't create
// event") matches the same way the bare phrase does; that coarse behavior
// is intentional and documented.
var actionRules = []struct {
	pattern string
	kind    ActionKind
}{
	{"create event", ActionCreate},
	{"show events", ActionFetch},
}

var summaryRules = []struct {
	pattern string
	summary string
}{
	{"meeting", "Meeting"},
	{"appointment", "Appointment"},
}

// Classify maps a generated reply onto an Action. Create actions span one
// hour from the extracted moment.
func Classify(reply string, moment time.Time) Action {
	lower := strings.ToLower(reply)
	for _, r := range actionRules {
		if !strings.Contains(lower, r.pattern) {
			continue
		}
		switch r.kind {
		case ActionCreate:
			a := Action{
				Kind:  ActionCreate,
				Start: moment,
				End:   moment.Add(time.Hour),
			}
			for _, s := range summaryRules {
				if strings.Contains(lower, s.pattern) {
					a.Summary = s.summary
					break
				}
			}
			return a
		case ActionFetch:
			return Action{Kind: ActionFetch, MaxResults: DefaultFetchLimit}
		}
	}
	return Action{Kind: ActionUnrecognized}
}
