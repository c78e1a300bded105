// Package intake defines the five-step profile form, its validation rules
// and the payload sent to /submit-info.
package intake

// Kind describes how a field is entered and encoded.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindChoice
	KindMulti // comma separated choices
)

// Field is one form input. Values are always held as strings in the
// draft; Kind decides how they are validated and encoded.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Choices []string
	Hint    string

	// Rule is a validator tag applied to the raw (text) or parsed
	// (number) value, e.g. "required,min=2" or "gte=14,lte=80".
	Rule string
	// Required forces a non-empty value.
	Required bool
	// Default is shown when the draft has no value.
	Default string

	// RequiredWhen makes the field required when another field holds
	// (or, for multi fields, contains) the given value.
	RequiredWhen *Condition
	// Message overrides the conditional-required error text.
	Message string
}

// Condition refers to another field's value.
type Condition struct {
	Field string
	Value string
}

// Step is one page of the form.
type Step struct {
	Key    string // payload section name
	Title  string
	Fields []Field
}

func other(parent, name, label, msg string) Field {
	return Field{
		Name:         name,
		Label:        label,
		RequiredWhen: &Condition{Field: parent, Value: "Other"},
		Message:      msg,
	}
}

var yesNo = []string{"Yes", "No"}

// Steps is the form definition in order.
var Steps = []Step{
	{
		Key:   "personal",
		Title: "Personal Info",
		Fields: []Field{
			{Name: "fullName", Label: "Full name", Required: true, Message: "Full name is required"},
			{Name: "age", Label: "Age", Kind: KindNumber, Required: true, Rule: "gte=14,lte=80", Message: "Age must be between 14 and 80"},
			{Name: "currentStatus", Label: "Current status", Kind: KindChoice, Required: true,
				Choices: []string{"Student", "Fresher", "Working Professional", "Career Break"}},
			{Name: "fieldOfStudy", Label: "Field of study", Required: true, Message: "Field of study is required"},
			{Name: "educationLevel", Label: "Education level", Kind: KindChoice, Required: true,
				Choices: []string{"High School", "Diploma/Intermediate", "Undergraduate", "Postgraduate", "Doctorate", "Other"}},
			{Name: "mobility", Label: "Relocation preference", Kind: KindChoice, Required: true,
				Choices: []string{"Willing to relocate", "Prefer hometown", "Depends on opportunity"}},
			{Name: "financialStatus", Label: "Financial status (1-10)", Kind: KindNumber, Required: true,
				Rule: "gte=1,lte=10", Default: "5", Message: "Financial status must be between 1 and 10"},
		},
	},
	{
		Key:   "interests",
		Title: "Interests",
		Fields: []Field{
			{Name: "favoriteSubjects", Label: "Favorite subjects", Hint: "e.g. Mathematics, Biology, History"},
			other("favoriteSubjects", "favoriteSubjectsOther", "Other subject", "Please specify your subject"),
			{Name: "activitiesThatMakeYouLoseTime", Label: "Activities that make you lose track of time"},
			other("activitiesThatMakeYouLoseTime", "activitiesOther", "Other activity", "Please specify your activity"),
			{Name: "onlineContent", Label: "Online content you enjoy"},
			other("onlineContent", "onlineContentOther", "Other content", "Please specify online content"),
			{Name: "exploreAreas", Label: "Areas you'd like to explore"},
			other("exploreAreas", "exploreAreasOther", "Other area", "Please specify area to explore"),
			{Name: "preferredRole", Label: "Preferred role"},
			other("preferredRole", "preferredRoleOther", "Other role", "Please specify your preferred role"),
			{Name: "preferredCompany", Label: "Preferred company type"},
			other("preferredCompany", "preferredCompanyOther", "Other company type", "Please specify your preferred company type"),
			{Name: "jobPriorities", Label: "Job priorities", Kind: KindMulti,
				Choices: []string{"Salary", "Learning", "Stability", "Work-life balance", "Social Impact", "Leadership", "Other"}},
			other("jobPriorities", "jobPrioritiesOther", "Other priority", "Please specify your job priority"),
		},
	},
	{
		Key:   "strengthsWeaknesses",
		Title: "Strengths & Weaknesses",
		Fields: []Field{
			{Name: "strengths", Label: "Your strengths"},
			other("strengths", "strengthsOther", "Other strength", "Please specify your strength"),
			{Name: "struggleWith", Label: "What do you struggle with?"},
			other("struggleWith", "struggleWithOther", "Other struggle", "Please specify your struggle area"),
			{Name: "confidenceLevel", Label: "Overall confidence (1-10)", Kind: KindNumber, Rule: "gte=1,lte=10",
				Message: "Confidence must be between 1 and 10"},
			{Name: "toolsTechUsed", Label: "Tools/technologies you've used"},
			other("toolsTechUsed", "toolsTechOther", "Other tool", "Please specify the tool/technology"),
			{Name: "internshipOrProject", Label: "Describe a project or internship"},
			{Name: "whatDidYouLearn", Label: "What did you learn from it?"},
			{Name: "relatedToCareer", Label: "Related to your career interests?", Kind: KindChoice, Choices: yesNo},
			{Name: "hasResume", Label: "Do you have a resume?", Kind: KindChoice, Choices: yesNo},
			{Name: "resumeFile", Label: "Resume file path", RequiredWhen: &Condition{Field: "hasResume", Value: "Yes"},
				Message: "Please upload your resume", Rule: "omitempty,file"},
		},
	},
	{
		Key:   "learningRoadmap",
		Title: "Learning Roadmap",
		Fields: []Field{
			{Name: "studyPlan", Label: "Your study plan"},
			other("studyPlan", "studyPlanOther", "Other study plan", "Please specify your study plan"),
			{Name: "preferredLearning", Label: "Preferred learning mode", Kind: KindMulti,
				Choices: []string{"Self-paced", "Classroom", "Online Courses", "Other"}},
			other("preferredLearning", "preferredLearningOther", "Other learning mode", "Please specify your preferred learning mode"),
			{Name: "openToExplore", Label: "Open to exploring new fields?", Kind: KindChoice, Choices: yesNo},
			{Name: "riskTaking", Label: "Risk taking level", Kind: KindChoice, Choices: []string{"Low", "Medium", "High"}},
		},
	},
	{
		Key:   "optional",
		Title: "Optional",
		Fields: []Field{
			{Name: "currentRole", Label: "Current role"},
			{Name: "yearsOfExperience", Label: "Years of experience", Kind: KindNumber, Rule: "gte=0,lte=50",
				Message: "Please enter a valid experience between 0 and 50"},
			{Name: "leadershipRole", Label: "Held a leadership role?", Kind: KindChoice, Choices: yesNo},
			{Name: "leadershipSkill", Label: "Leadership skills demonstrated",
				RequiredWhen: &Condition{Field: "leadershipRole", Value: "Yes"},
				Message:      "Please describe your leadership skill."},
		},
	},
}

// FieldByName finds a field definition across all steps.
func FieldByName(name string) (Field, bool) {
	for _, s := range Steps {
		for _, f := range s.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}
