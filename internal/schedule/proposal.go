package schedule

import (
	"regexp"
	"strings"
)

// ProposalMarker is the heading the companion is prompted to emit ahead of
// schedule suggestions. Matching is case-insensitive.
const ProposalMarker = "proposed additions to your schedule"

// Proposal maps canonical day keys to the ordered, deduplicated additions
// parsed out of one companion reply. Unrecognized records day tokens that
// matched the line shape but named no known day; callers decide whether to
// surface them.
type Proposal struct {
	Additions    map[string][]string
	Unrecognized []string
}

// Empty reports whether the proposal carries no additions.
func (p Proposal) Empty() bool {
	for _, items := range p.Additions {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

var (
	bulletPrefixRe  = regexp.MustCompile(`^\s*[-–•*]+\s*`)
	proposalLineRe  = regexp.MustCompile(`^(\w+)\s*[–-]\s*(.+)$`)
	spacedHyphenRe  = regexp.MustCompile(`\s-\s`)
	dashSeparatorRe = regexp.MustCompile(`[–-]`)
)

var proposalDayTokens = map[string]string{
	"mon": "mon", "tue": "tue", "wed": "wed", "thu": "thu",
	"fri": "fri", "sat": "sat", "sun": "sun", "daily": "daily",
}

// ExtractProposal scans a companion reply for the proposal marker and
// parses the lines after it into per-day additions. A reply without the
// marker yields an empty proposal.
func ExtractProposal(reply string) Proposal {
	p := Proposal{Additions: map[string][]string{}}
	for _, key := range DayKeys {
		p.Additions[key] = []string{}
	}

	idx := strings.Index(strings.ToLower(reply), ProposalMarker)
	if idx < 0 {
		return p
	}
	tail := reply[idx+len(ProposalMarker):]

	var kept []string
	for _, raw := range strings.Split(tail, "\n") {
		line := bulletPrefixRe.ReplaceAllString(raw, "")
		line = strings.TrimSpace(line)
		if line == "" || !dashSeparatorRe.MatchString(line) {
			continue
		}
		// Normalize " - " to an em-dash so one separator shape reaches
		// the line parser.
		kept = append(kept, spacedHyphenRe.ReplaceAllString(line, " – "))
	}

	parseProposalLines(kept, &p)
	for key := range p.Additions {
		p.Additions[key] = dedup(p.Additions[key])
	}
	return p
}

func parseProposalLines(lines []string, p *Proposal) {
	for _, line := range lines {
		m := proposalLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		token := strings.ToLower(m[1])
		activity := strings.TrimSpace(m[2])
		if activity == "" {
			continue
		}

		day, ok := proposalDayTokens[normalizeProposalToken(token)]
		if !ok {
			p.Unrecognized = append(p.Unrecognized, m[1])
			continue
		}
		if day == "daily" {
			for _, key := range DayKeys {
				p.Additions[key] = append(p.Additions[key], activity)
			}
			continue
		}
		p.Additions[day] = append(p.Additions[day], activity)
	}
}

// normalizeProposalToken reduces a day token to the fixed table's shape:
// "daily" stays as-is, anything else is matched as a day-name prefix.
func normalizeProposalToken(token string) string {
	if token == "daily" || token == "everyday" {
		return "daily"
	}
	if k := NormalizeDayKey(token); k != "" {
		return k
	}
	return token
}
