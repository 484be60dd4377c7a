// Package rules holds the non-negotiable program rules. The list is
// static: rules are displayed, never edited.
package rules

// List returns the program rules in display order.
func List() []string {
	return []string{
		"No Social Media (IG, X, TikTok, FB)",
		"No Video Games",
		"No Junk Food / Sugar",
		"No Porn / Masturbation",
		"No Alcohol / Drugs",
		"Wake up by 6:00 AM",
		"Cold Shower Daily",
	}
}

// Status is the fixed display status of the rule set.
const Status = "LOCKED & ACTIVE"
