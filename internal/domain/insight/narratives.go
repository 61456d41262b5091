package insight

import "fmt"

// renderNarrative formats the per-cluster narrative body. Each cluster has
// its own pure formatting function; a cluster without one gets an empty
// body and the narrative becomes just the confidence note. Days, module
// counts and scores render whole, hours to one decimal, ratios to two.
func renderNarrative(clusterID int, s stats) string {
	switch clusterID {
	case 0:
		return renderFastLearner(s)
	case 1:
		return renderConsistentLearner(s)
	case 2:
		return renderReflectiveLearner(s)
	case 3:
		return renderStrugglingLearner(s)
	default:
		return ""
	}
}

func renderFastLearner(s stats) string {
	return fmt.Sprintf(
		"Your study sessions are still infrequent (around %.0f active days), but once "+
			"you start you move very quickly, finishing a module in about %.1f hours on "+
			"average. You have completed around %.0f modules with an average exam score "+
			"of %.0f. Try studying more often so your progress compounds.",
		s.ActiveDays, s.AvgHours, s.Modules, s.Score,
	)
}

func renderConsistentLearner(s stats) string {
	return fmt.Sprintf(
		"You study quite consistently (around %.0f active days) and have completed "+
			"around %.0f modules. Your average exam score is high at about %.0f. Your "+
			"revision ratio sits around %.2f. Keep this pattern going and use feedback "+
			"to keep refining your understanding.",
		s.ActiveDays, s.Modules, s.Score, s.ReviewRatio,
	)
}

func renderReflectiveLearner(s stats) string {
	return fmt.Sprintf(
		"You are very persistent, with around %.0f active days and around %.0f modules "+
			"completed. The time you spend per module is fairly long, about %.1f hours. "+
			"Your average exam score is about %.0f. Keep the depth, but consider managing "+
			"your study time more efficiently.",
		s.ActiveDays, s.Modules, s.AvgHours, s.Score,
	)
}

func renderStrugglingLearner(s stats) string {
	return fmt.Sprintf(
		"You study fairly actively (around %.0f active days) and have completed around "+
			"%.0f modules. Your average exam score is currently about %.0f, with a "+
			"revision ratio around %.2f. You experiment a lot, but the fundamentals still "+
			"need reinforcing; revisit the material and use submission feedback to lift "+
			"your exam results.",
		s.ActiveDays, s.Modules, s.Score, s.ReviewRatio,
	)
}
