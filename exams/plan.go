package exams

import (
	"time"

	"github.com/ghostmode/ninety/tracker"
)

// Exam timeline anchors.
var (
	PlanStart = tracker.NewDate(2026, time.January, 13)
	ExamStart = tracker.NewDate(2026, time.January, 20)
)

// PlanOfDay returns the current objective message for the exam run-up.
// Branches are keyed off whole-day distance from PlanStart.
func PlanOfDay(now time.Time) string {
	today := tracker.DateOf(now)
	if today.Before(PlanStart) {
		return "PRE-GAME PREP"
	}

	dayDiff := PlanStart.DaysUntil(now)
	switch {
	case dayDiff <= 1:
		return "HIGH INTENSITY: Clear Physics Unit 1-3"
	case dayDiff >= 2 && dayDiff <= 4:
		return "PONGAL BREAK: Formula Reading & Light Revision (Physics/Maths)"
	case dayDiff == 5 || dayDiff == 6:
		return "CRITICAL MASS: Complete all Physics Units. Start Math Rev."
	case !today.Before(ExamStart):
		return "WAR MODE: Exam Cycle Active. Focus on Next Paper."
	default:
		return "STAY HARD: Clear pending backlogs."
	}
}
