package results

// Display colors for a percent score.
const (
	ColorRed   = "#ef4444"
	ColorAmber = "#f59e0b"
	ColorGreen = "#10b981"
)

// GradeFailing is assigned below the lowest threshold.
const GradeFailing = "F"

type gradeBand struct {
	min   float64
	grade string
}

// gradeScale is ordered from the highest threshold down; bounds are inclusive.
var gradeScale = []gradeBand{
	{min: 90, grade: "A+"},
	{min: 80, grade: "A"},
	{min: 70, grade: "B+"},
	{min: 60, grade: "B"},
	{min: 50, grade: "C"},
	{min: 35, grade: "D"},
}

// Percent returns obtained/total*100, or 0 when total is not positive.
func Percent(obtained, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return obtained / total * 100
}

// GradeFor maps a percent score onto the letter grade scale.
func GradeFor(percent float64) string {
	for _, band := range gradeScale {
		if percent >= band.min {
			return band.grade
		}
	}
	return GradeFailing
}

// ColorFor maps a percent score onto its display color.
func ColorFor(percent float64) string {
	switch {
	case percent < 35:
		return ColorRed
	case percent <= 80:
		return ColorAmber
	default:
		return ColorGreen
	}
}

// Performance analysis shown in the detail view.
const (
	AnalysisStruggling = "This student's performance needs significant improvement. Consider providing additional support and resources to help them understand basic concepts."
	AnalysisSteady     = "Good effort from this student. They understand the basics but need to work on accuracy and speed. Encourage them to review incorrect answers and practice more."
	AnalysisStrong     = "Great work by this student. They have a solid understanding. Suggest focusing on mastering advanced concepts and optimizing their approach."
	AnalysisExcellent  = "Excellent performance! This student demonstrates strong mastery of the subject. Encourage them to continue their outstanding work and consider mentoring others."
)

// AnalysisFor picks the performance analysis for a percent score.
func AnalysisFor(percent float64) string {
	switch {
	case percent < 35:
		return AnalysisStruggling
	case percent <= 60:
		return AnalysisSteady
	case percent <= 80:
		return AnalysisStrong
	default:
		return AnalysisExcellent
	}
}
