package devserver

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/scoring"
)

// job is a report generation task. It advances one stage per status poll;
// CurrentStage is the zero-based index into report.Stages.
type job struct {
	ID      string
	Email   string
	Stages  int
	Polls   int
	Created time.Time
}

// statusBody is the wire shape of a status response.
type statusBody struct {
	Status        string               `json:"status"`
	CurrentStage  int                  `json:"current_stage"`
	PartialReport *report.CareerReport `json:"partial_report,omitempty"`
	FinalReport   *report.CareerReport `json:"final_report,omitempty"`
	Error         string               `json:"error,omitempty"`
}

func (j *job) advance(p *profile) statusBody {
	if p == nil {
		return statusBody{Status: string(report.StatusFailed), CurrentStage: max(j.Polls-1, 0), Error: "profile no longer exists"}
	}
	if j.Polls < j.Stages {
		j.Polls++
	}
	if j.Polls >= j.Stages {
		return statusBody{Status: string(report.StatusCompleted), CurrentStage: j.Stages - 1, FinalReport: buildReport(p)}
	}

	body := statusBody{Status: string(report.StatusInProgress), CurrentStage: j.Polls - 1}
	// Past the halfway mark the summary and strengths are known.
	if j.Polls*2 > j.Stages {
		full := buildReport(p)
		body.PartialReport = &report.CareerReport{FriendlySummary: full.FriendlySummary, Strengths: full.Strengths}
	}
	return body
}

// careersByInterest maps a RIASEC type to representative careers.
var careersByInterest = map[string][]report.Career{
	"Realistic": {
		{Name: "Mechanical Engineer", Merits: "Hands-on problem solving with tangible results", Demerits: "Can involve site work and long hours", Trends: "Growing demand in robotics and EV manufacturing"},
		{Name: "Network Technician", Merits: "Clear skill ladder and certifications", Demerits: "On-call rotations", Trends: "Steady demand as infrastructure moves to hybrid cloud"},
	},
	"Investigative": {
		{Name: "Data Scientist", Merits: "Analytical work with broad industry reach", Demerits: "Requires continual learning of tools", Trends: "Strong growth driven by AI adoption"},
		{Name: "Research Analyst", Merits: "Deep focus on questions that matter", Demerits: "Funding-dependent roles", Trends: "Expanding in healthcare and policy"},
	},
	"Artistic": {
		{Name: "UX Designer", Merits: "Creative work with measurable user impact", Demerits: "Frequent critique and iteration", Trends: "Demand rising with digital products"},
		{Name: "Content Strategist", Merits: "Blends writing with planning", Demerits: "Results can be hard to quantify", Trends: "Growing with video and social platforms"},
	},
	"Social": {
		{Name: "Counselor", Merits: "Directly helps people grow", Demerits: "Emotionally demanding", Trends: "Mental health awareness is increasing demand"},
		{Name: "Teacher", Merits: "Meaningful, stable work", Demerits: "Heavy workload outside class hours", Trends: "Blended and online learning opening new roles"},
	},
	"Enterprising": {
		{Name: "Product Manager", Merits: "Leads teams toward clear outcomes", Demerits: "Accountable without direct authority", Trends: "High demand in technology firms"},
		{Name: "Entrepreneur", Merits: "Ownership and autonomy", Demerits: "Financial risk", Trends: "Startup ecosystems keep expanding"},
	},
	"Conventional": {
		{Name: "Accountant", Merits: "Well-defined standards and progression", Demerits: "Seasonal deadline pressure", Trends: "Automation shifting work toward advisory roles"},
		{Name: "Operations Analyst", Merits: "Improves how organisations run", Demerits: "Detail-heavy routine tasks", Trends: "Data-driven operations are a growth area"},
	},
}

type rated struct {
	Test     string
	Category string
	Score    scoring.Score
}

// ratings flattens a profile's scores in a stable order.
func ratings(p *profile) []rated {
	var out []rated
	for test, cats := range p.Scores {
		for cat, sc := range cats {
			out = append(out, rated{Test: test, Category: cat, Score: sc})
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Score.Average != out[k].Score.Average {
			return out[i].Score.Average > out[k].Score.Average
		}
		if out[i].Test != out[k].Test {
			return out[i].Test < out[k].Test
		}
		return out[i].Category < out[k].Category
	})
	return out
}

func buildReport(p *profile) *report.CareerReport {
	all := ratings(p)
	r := &report.CareerReport{}

	for _, x := range all {
		switch strings.ToLower(x.Score.Level) {
		case "high":
			r.Strengths = append(r.Strengths, fmt.Sprintf("%s (%s)", x.Category, x.Test))
		case "low":
			r.Weaknesses = append(r.Weaknesses, fmt.Sprintf("%s (%s)", x.Category, x.Test))
		}
		if x.Test == "aptitude" && !strings.EqualFold(x.Score.Level, "high") {
			r.SkillGaps = append(r.SkillGaps, fmt.Sprintf("Build %s reasoning through regular practice", strings.ToLower(x.Category)))
		}
	}

	for _, x := range all {
		if x.Test != "riasec" {
			continue
		}
		r.TopCareers = append(r.TopCareers, careersByInterest[x.Category]...)
		if len(r.TopCareers) >= 3 {
			r.TopCareers = r.TopCareers[:3]
			break
		}
	}

	tests := make([]string, 0, len(p.Scores))
	for t := range p.Scores {
		tests = append(tests, t)
	}
	sort.Strings(tests)
	lead := "a balanced profile"
	if len(all) > 0 {
		lead = "a clear strength in " + all[0].Category
	}
	r.FriendlySummary = fmt.Sprintf("Based on your %s results you show %s. ", strings.Join(tests, ", "), lead) +
		"Keep exploring the paths below and talk to people already working in them."

	if goal := infoString(p, "interests", "preferredRole"); goal != "" {
		r.Suggestions = append(r.Suggestions, "Map each recommended career against your preferred role: "+goal)
	}
	if len(p.Answers) > 0 {
		r.Suggestions = append(r.Suggestions, "Your interview answers show self-awareness; revisit them when choosing electives")
	}
	if p.Resume == nil {
		r.NextSteps = append(r.NextSteps, "Upload a resume to get feedback on your experience")
	}
	r.NextSteps = append(r.NextSteps,
		"Shortlist two careers and find one mentor in each",
		"Complete a short online course related to your top career")
	return r
}

func infoString(p *profile, section, field string) string {
	if p.Info == nil {
		return ""
	}
	s, _ := p.Info[section][field].(string)
	return s
}

func questionsFor(p *profile) []string {
	qs := []string{
		"What kind of work makes you lose track of time?",
		"Describe a project or achievement you are proud of.",
	}
	if all := ratings(p); len(all) > 0 {
		qs = append(qs, fmt.Sprintf("Your results suggest strength in %s. Where have you used it recently?", all[0].Category))
	}
	if goal := infoString(p, "interests", "preferredRole"); goal != "" {
		qs = append(qs, fmt.Sprintf("What first drew you to %q?", goal))
	}
	qs = append(qs,
		"Which subjects or skills do you find hardest, and why?",
		"Where would you like to be in five years?")
	return qs
}

func followupFor(i int, answer string) string {
	return fmt.Sprintf("Could you expand on your answer to question %d (%q) with a concrete example?", i+1, strings.TrimSpace(answer))
}
