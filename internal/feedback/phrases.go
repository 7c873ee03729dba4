package feedback

type category string

const (
	categoryCommunication      category = "communication"
	categoryTechnicalKnowledge category = "technical_knowledge"
	categoryConfidence         category = "confidence"
	categoryClarity            category = "clarity"
	categoryProblemSolving     category = "problem_solving"
	categoryTimeManagement     category = "time_management"
)

type phrase struct {
	strength       string
	improvement    string
	recommendation string
}

var phrases = map[category]phrase{
	categoryCommunication: {
		strength:       "Strong communication skills with well-articulated answers",
		improvement:    "Work on communicating your experiences more clearly",
		recommendation: "Practice answering behavioral questions out loud using the STAR method",
	},
	categoryTechnicalKnowledge: {
		strength:       "Solid technical knowledge across the topics covered",
		improvement:    "Deepen your understanding of core technical concepts",
		recommendation: "Review fundamentals and study common system design patterns",
	},
	categoryConfidence: {
		strength:       "Answered with confidence and good pacing",
		improvement:    "Build more confidence when answering",
		recommendation: "Run timed mock interviews to get comfortable under pressure",
	},
	categoryClarity: {
		strength:       "Clear answers that hit the expected key points",
		improvement:    "Cover more of the key points each question is looking for",
		recommendation: "Outline the key terms of a topic before answering",
	},
	categoryProblemSolving: {
		strength:       "Good problem-solving approach",
		improvement:    "Strengthen your problem-solving approach",
		recommendation: "Practice breaking problems into steps and explaining trade-offs",
	},
	categoryTimeManagement: {
		strength:       "Used the allotted time efficiently",
		improvement:    "Manage your time better across questions",
		recommendation: "Keep an eye on the clock and aim to finish within the allocated time",
	},
}

// categoryOrder fixes the order in which phrases are emitted.
var categoryOrder = []category{
	categoryCommunication,
	categoryTechnicalKnowledge,
	categoryConfidence,
	categoryClarity,
	categoryProblemSolving,
	categoryTimeManagement,
}

const (
	genericStrength       = "You completed the session, which is a great step forward"
	genericImprovement    = "Keep challenging yourself with harder questions"
	genericRecommendation = "Continue practicing regularly to maintain your progress"
)
