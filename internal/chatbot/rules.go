package chatbot

import (
	"strings"
	"time"
)

// Rule names, also used as metric labels.
const (
	RuleGreeting      = "greeting"
	RuleRegistration  = "registration"
	RuleTests         = "tests"
	RuleResults       = "results"
	RuleAssignments   = "assignments"
	RuleNotifications = "notifications"
	RuleWhySTC        = "why_stc"
	RuleAboutSTC      = "about_stc"
	RuleBenefits      = "benefits"
	RuleHelp          = "help"
)

// DefaultRules returns the rule set in priority order.
func DefaultRules(signupURL string) []Rule {
	return []Rule{
		{
			Name: RuleGreeting,
			Match: func(m string) bool {
				return containsAny(m, "hello", "hi", "hey", "hai", "hola", "namaste")
			},
			Respond: welcomeText,
		},
		{
			Name: RuleRegistration,
			Match: func(m string) bool {
				return containsAny(m, "register", "signup", "sign up", "create account", "new account")
			},
			Respond: func(Session, time.Time) string {
				return "To register for Smart Test Center, please visit our signup page: " + signupURL + "\n\n" +
					"You can create an account as either a student or mentor. After registration, you'll be able to access all the features based on your role."
			},
		},
		{
			Name:    RuleTests,
			Match:   func(m string) bool { return containsAny(m, "test", "exam") },
			Respond: byRole(mentorTests, studentTests),
		},
		{
			Name:    RuleResults,
			Match:   func(m string) bool { return containsAny(m, "result", "score", "grade") },
			Respond: byRole(mentorResults, studentResults),
		},
		{
			Name:    RuleAssignments,
			Match:   func(m string) bool { return containsAny(m, "assignment", "homework") },
			Respond: byRole(mentorAssignments, studentAssignments),
		},
		{
			Name:    RuleNotifications,
			Match:   func(m string) bool { return containsAny(m, "notification", "alert", "message") },
			Respond: byRole(mentorNotifications, studentNotifications),
		},
		{
			Name: RuleWhySTC,
			Match: func(m string) bool {
				return strings.Contains(m, "why") && containsAny(m, "stc", "smart test")
			},
			Respond: static(whySTC),
		},
		{
			Name: RuleAboutSTC,
			Match: func(m string) bool {
				return containsAny(m, "what is stc", "what does stc", "explain stc") ||
					(strings.Contains(m, "stc") && strings.Contains(m, "do"))
			},
			Respond: static(aboutSTC),
		},
		{
			Name:    RuleBenefits,
			Match:   func(m string) bool { return containsAny(m, "benefit", "advantage", "feature") },
			Respond: static(benefits),
		},
	}
}

var helpRule = Rule{
	Name:    RuleHelp,
	Match:   func(string) bool { return true },
	Respond: static(help),
}

func byRole(mentor, other string) func(Session, time.Time) string {
	return func(session Session, _ time.Time) string {
		if session.IsMentor() {
			return mentor
		}
		return other
	}
}

func static(text string) func(Session, time.Time) string {
	return func(Session, time.Time) string { return text }
}

const mentorTests = "As a mentor, you can create and manage tests:\n\n" +
	"1. Go to your dashboard and click \"Add Test\"\n" +
	"2. Fill in test details like name, duration, and number of questions\n" +
	"3. Add questions (MCQ, Long Answer, or Coding)\n" +
	"4. Publish the test for students to take\n\n" +
	"You can view student results and performance analytics in the \"View Results\" section."

const studentTests = "As a student, you can take tests assigned to you:\n\n" +
	"1. Go to \"My Tests\" in your dashboard\n" +
	"2. Select a test and click \"Take Test\"\n" +
	"3. Complete the test within the time limit\n" +
	"4. View your results in \"My Scores\"\n\n" +
	"Remember to allow camera access as it's required for monitoring during the test."

const mentorResults = "As a mentor, you can view student results:\n\n" +
	"1. Go to your dashboard and click \"View Results\"\n" +
	"2. See all student submissions for tests you've created\n" +
	"3. View detailed performance analytics\n" +
	"4. Track student progress over time\n\n" +
	"You can also download results for record keeping."

const studentResults = "As a student, you can view your test results:\n\n" +
	"1. Go to \"My Scores\" in your dashboard\n" +
	"2. See all your completed tests with scores\n" +
	"3. View detailed feedback and performance analysis\n" +
	"4. Track your progress over time\n\n" +
	"Results are available immediately after test submission."

const mentorAssignments = "As a mentor, you can create and manage assignments:\n\n" +
	"1. Go to \"Assignments\" in your dashboard\n" +
	"2. Click \"Create New Assignment\"\n" +
	"3. Upload PDF files and set due dates\n" +
	"4. Assign to specific students or all students\n\n" +
	"Students can download and submit assignments through their dashboard."

const studentAssignments = "As a student, you can view and submit assignments:\n\n" +
	"1. Go to \"Assignments\" in your dashboard\n" +
	"2. View all assignments assigned to you\n" +
	"3. Download PDF files and complete work\n" +
	"4. Submit before the due date\n\n" +
	"You'll receive notifications when new assignments are posted."

const mentorNotifications = "As a mentor, you can send notifications to students:\n\n" +
	"1. Go to \"Notifications\" in your dashboard\n" +
	"2. Click \"Create New Notification\"\n" +
	"3. Write your message and set priority\n" +
	"4. Send to specific students or all students\n\n" +
	"You can track read receipts and student reactions."

const studentNotifications = "As a student, you can view notifications from mentors:\n\n" +
	"1. Check the notifications section in your dashboard\n" +
	"2. View all messages from your mentors\n" +
	"3. React to notifications with emojis\n" +
	"4. Mark as read when you've seen them\n\n" +
	"You'll receive alerts when new notifications are sent."

const whySTC = "Smart Test Center offers several key benefits:\n\n" +
	"✅ AI-Powered Question Generation - Create tests automatically\n" +
	"✅ Intelligent Proctoring - Monitor students during tests\n" +
	"✅ Multi-Question Types - MCQ, Long Answer, and Coding questions\n" +
	"✅ Performance Analytics - Detailed results and progress tracking\n" +
	"✅ Assignment Management - PDF upload/download system\n" +
	"✅ Real-time Notifications - Instant communication\n" +
	"✅ Role-based Access - Separate dashboards for students, mentors, and admins\n\n" +
	"This makes STC the complete solution for online testing and learning management."

const aboutSTC = "Smart Test Center (STC) is a comprehensive online testing and learning management platform designed for educational institutions.\n\n" +
	"Key Features:\n" +
	"🔹 Automated Test Creation - Generate questions using AI\n" +
	"🔹 Secure Exam Environment - Camera monitoring to prevent cheating\n" +
	"🔹 Multiple Question Types - Support for MCQs, essays, and coding problems\n" +
	"🔹 Instant Results - Automatic grading with detailed feedback\n" +
	"🔹 Progress Tracking - Monitor performance over time\n" +
	"🔹 Assignment System - PDF upload/download for homework\n" +
	"🔹 Communication Tools - Real-time notifications between mentors and students\n\n" +
	"STC streamlines the entire testing process, making it efficient for educators and engaging for students."

const benefits = "Smart Test Center provides these key benefits:\n\n" +
	"🔹 Automated Test Creation - Save time with AI-generated questions\n" +
	"🔹 Secure Testing Environment - Camera monitoring prevents cheating\n" +
	"🔹 Flexible Question Types - Support for MCQ, essays, and coding\n" +
	"🔹 Instant Grading - Automatic scoring with detailed feedback\n" +
	"🔹 Progress Tracking - Monitor performance over time\n" +
	"🔹 Easy Communication - Notification system for quick updates\n" +
	"🔹 Mobile Responsive - Access from any device\n\n" +
	"These features make online testing efficient and effective."

const help = "I'm STC Assistant, here to help you with Smart Test Center. I can assist with:\n\n" +
	"• Registration and account setup\n" +
	"• Taking and creating tests\n" +
	"• Viewing results and scores\n" +
	"• Managing assignments\n" +
	"• Using notifications\n" +
	"• Understanding STC benefits\n\n" +
	"You can ask me specific questions like:\n" +
	"• \"How do I register for STC?\"\n" +
	"• \"How do I create a test?\"\n" +
	"• \"How do I view my results?\"\n" +
	"• \"What are the benefits of STC?\"\n\n" +
	"What would you like to know more about?"
