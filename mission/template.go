package mission

// TemplateTask is one entry of the fixed daily checklist. The template is
// code-defined; persisted rows are reconciled against it by title.
type TemplateTask struct {
	Key     string
	Title   string
	HasTime bool
	Target  string
}

// Template returns the daily mission checklist. Order here is the display
// order; the synchronizer re-orders fetched rows to match it.
//
// The consistency thresholds in consistency.go are calibrated against
// this size and must be revisited if it changes.
func Template() []TemplateTask {
	return []TemplateTask{
		{Key: "deepwork", Title: "Deep Work", HasTime: true, Target: "4 hrs"},
		{Key: "skill", Title: "Skill Learning", HasTime: true, Target: "1 hr"},
		{Key: "exercise", Title: "Exercise", HasTime: true, Target: "45 mins"},
		{Key: "reading", Title: "Reading", HasTime: true, Target: "30 mins"},
		{Key: "journal", Title: "Journal", HasTime: false, Target: "1 entry"},
	}
}

// TemplateSize is the number of tasks expected per day.
func TemplateSize() int {
	return len(Template())
}
