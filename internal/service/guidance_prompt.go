package service

import (
	"codementor_backend/internal/model"
	"fmt"
	"strings"
)

const guidanceSystemPrompt = "You are a coding education expert specialized in creating personalized learning plans."

const guidanceResponseLayout = `{
  "guidance": {
    "content": "your personalized guidance here with markdown formatting including **bold** for emphasis and lists with - bullets",
    "codeExample": {
      "title": "Example Title (e.g. JavaScript Example)",
      "code": "// The actual code goes here",
      "language": "language name (e.g. javascript)"
    }
  },
  "resources": [
    {
      "type": "course",
      "title": "Resource Title",
      "description": "Brief description",
      "level": "Beginner/Intermediate/Advanced",
      "duration": "Estimated time (e.g. 12 hours)",
      "link": "https://example.com"
    },
    {
      "type": "challenge",
      "title": "Practice Challenge Title",
      "description": "Brief description",
      "level": "Difficulty level",
      "duration": "Estimated time",
      "link": "https://example.com"
    },
    {
      "type": "documentation",
      "title": "Resource Name 1, Resource Name 2, Resource Name 3",
      "description": "Brief description 1, Brief description 2, Brief description 3",
      "link": "https://example.com"
    }
  ],
  "progress": [
    { "name": "Topic/Skill 1", "percentage": 0 },
    { "name": "Topic/Skill 2", "percentage": 0 },
    { "name": "Topic/Skill 3", "percentage": 0 }
  ]
}`

// buildGuidancePrompt 原样列出问卷的六个字段，并给出期望的 JSON 结构
func buildGuidancePrompt(a *model.Assessment) string {
	details := "None provided"
	if a.GoalDetails != nil && strings.TrimSpace(*a.GoalDetails) != "" {
		details = *a.GoalDetails
	}

	var b strings.Builder
	b.WriteString("Based on the following coding proficiency assessment, provide personalized learning guidance ")
	b.WriteString("for a student. Include specific advice, learning path recommendations, and a relevant code example.\n\n")

	b.WriteString("User Assessment:\n")
	fmt.Fprintf(&b, "- Experience Level: %s\n", a.ExperienceLevel)
	fmt.Fprintf(&b, "- Programming Languages: %s\n", strings.Join(a.Languages, ", "))
	fmt.Fprintf(&b, "- Learning Goal: %s\n", a.LearningGoal)
	fmt.Fprintf(&b, "- Additional Goal Details: %s\n", details)
	fmt.Fprintf(&b, "- Learning Style: %s\n", a.LearningStyle)
	fmt.Fprintf(&b, "- Time Commitment: %s\n\n", a.TimeCommitment)

	b.WriteString("Provide:\n")
	b.WriteString("1. Personalized learning guidance (3-4 paragraphs)\n")
	b.WriteString("2. Specific recommendations for learning resources\n")
	b.WriteString("3. A code example related to their learning goals\n")
	b.WriteString("4. Three skills or topics to track, with a starting completion percentage between 0 and 100\n\n")

	b.WriteString("Respond with a single JSON object with exactly these top-level fields and no other text:\n")
	b.WriteString(guidanceResponseLayout)
	b.WriteString("\n")

	return b.String()
}
