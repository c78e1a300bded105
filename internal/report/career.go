package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Placeholder is shown for any section the service did not fill in.
const Placeholder = "No data available"

// Career is one recommended path.
type Career struct {
	Name     string `json:"name"`
	Merits   string `json:"merits,omitempty"`
	Demerits string `json:"demerits,omitempty"`
	Trends   string `json:"trends,omitempty"`
}

// CareerReport is the final analysis produced by the service.
type CareerReport struct {
	FriendlySummary string   `json:"friendly_summary,omitempty"`
	TopCareers      []Career `json:"top_careers,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	SkillGaps       []string `json:"skill_gaps,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
	NextSteps       []string `json:"next_steps,omitempty"`
}

// Parse decodes a report payload leniently. Unknown shapes degrade to
// empty fields; Parse never fails and never returns nil.
func Parse(raw json.RawMessage) *CareerReport {
	r := &CareerReport{}
	if isEmptyJSON(raw) {
		return r
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Some services double-encode the report as a JSON string.
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return Parse(json.RawMessage(s))
		}
		return r
	}
	if inner, ok := doc["final_report"].(map[string]any); ok {
		doc = inner
	}

	r.FriendlySummary = textOf(first(doc, "friendly_summary", "friendlySummary", "summary"))
	r.TopCareers = careersOf(first(doc, "top_careers", "topCareers", "career_recommendations"))
	r.Strengths = listOf(first(doc, "strengths"))
	r.Weaknesses = listOf(first(doc, "weaknesses"))
	r.SkillGaps = listOf(first(doc, "skill_gaps", "skillGaps"))
	r.Suggestions = listOf(first(doc, "suggestions"))
	r.NextSteps = listOf(first(doc, "next_steps", "nextSteps"))
	return r
}

// Empty reports whether no section carries data.
func (r *CareerReport) Empty() bool {
	return r == nil || (r.FriendlySummary == "" && len(r.TopCareers) == 0 &&
		len(r.Strengths) == 0 && len(r.Weaknesses) == 0 && len(r.SkillGaps) == 0 &&
		len(r.Suggestions) == 0 && len(r.NextSteps) == 0)
}

// Summary returns the friendly summary or the placeholder.
func (r *CareerReport) Summary() string {
	if r == nil || r.FriendlySummary == "" {
		return Placeholder
	}
	return r.FriendlySummary
}

// Section is a titled list ready for display.
type Section struct {
	Title string
	Items []string
}

// Sections returns the list sections in display order. Empty sections
// carry the placeholder as their only item.
func (r *CareerReport) Sections() []Section {
	if r == nil {
		r = &CareerReport{}
	}
	careers := make([]string, 0, len(r.TopCareers))
	for _, c := range r.TopCareers {
		careers = append(careers, c.String())
	}
	out := []Section{
		{"Top Careers", careers},
		{"Strengths", r.Strengths},
		{"Weaknesses", r.Weaknesses},
		{"Skill Gaps", r.SkillGaps},
		{"Suggestions", r.Suggestions},
		{"Next Steps", r.NextSteps},
	}
	for i := range out {
		if len(out[i].Items) == 0 {
			out[i].Items = []string{Placeholder}
		}
	}
	return out
}

func (c Career) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Merits != "" {
		fmt.Fprintf(&b, "\n  + %s", c.Merits)
	}
	if c.Demerits != "" {
		fmt.Fprintf(&b, "\n  - %s", c.Demerits)
	}
	if c.Trends != "" {
		fmt.Fprintf(&b, "\n  ~ %s", c.Trends)
	}
	return b.String()
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}

func first(doc map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		return strings.Join(listOf(t), "; ")
	case map[string]any:
		return strings.Join(listOf(t), "; ")
	default:
		return fmt.Sprint(t)
	}
}

// listOf accepts a list, a newline separated string, or an object whose
// entries become "key: value" lines in key order.
func listOf(v any) []string {
	var out []string
	switch t := v.(type) {
	case nil:
	case string:
		for _, line := range strings.Split(t, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
			if line != "" {
				out = append(out, line)
			}
		}
	case []any:
		for _, item := range t {
			if s := textOf(item); s != "" {
				out = append(out, s)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := textOf(t[k]); s != "" {
				out = append(out, k+": "+s)
			}
		}
	default:
		out = append(out, fmt.Sprint(t))
	}
	return out
}

func careersOf(v any) []Career {
	var out []Career
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			switch c := item.(type) {
			case string:
				if s := strings.TrimSpace(c); s != "" {
					out = append(out, Career{Name: s})
				}
			case map[string]any:
				career := Career{
					Name:     textOf(first(c, "name", "title", "career")),
					Merits:   textOf(first(c, "merits", "pros")),
					Demerits: textOf(first(c, "demerits", "cons")),
					Trends:   textOf(first(c, "trends", "market_trends")),
				}
				if career.Name != "" {
					out = append(out, career)
				}
			}
		}
	default:
		for _, s := range listOf(t) {
			out = append(out, Career{Name: s})
		}
	}
	return out
}
