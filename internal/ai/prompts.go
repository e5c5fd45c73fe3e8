package ai

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

const jsonOnly = "Respond with JSON only, no markdown and no commentary."

// RecommendationHints is the structure the model returns for course recommendations
type RecommendationHints struct {
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`
	Level      string   `json:"level"`
}

func RecommendationPrompt(p *models.StudentProfile) []Message {
	var b strings.Builder
	b.WriteString("A student is looking for online courses.\n")
	fmt.Fprintf(&b, "Interests: %s\n", joinOrNone(p.Interests))
	fmt.Fprintf(&b, "Learning goals: %s\n", joinOrNone(p.LearningGoals))
	fmt.Fprintf(&b, "Education level: %s\n", orNone(p.EducationLevel))
	fmt.Fprintf(&b, "Preferred learning style: %s\n", orNone(string(p.LearningStyle)))
	fmt.Fprintf(&b, "Weekly study hours: %d\n", p.WeeklyHours)
	b.WriteString(`Suggest course categories and search keywords that fit this student, and the course level ` +
		`(beginner, intermediate or advanced). Use the shape {"categories":[],"keywords":[],"level":""}. `)
	b.WriteString(jsonOnly)

	return []Message{
		{Role: RoleSystem, Content: "You are an academic advisor for an e-learning platform."},
		{Role: RoleUser, Content: b.String()},
	}
}

type OutlineLesson struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes"`
}

type OutlineModule struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Lessons     []OutlineLesson `json:"lessons"`
}

type CourseOutline struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Modules     []OutlineModule `json:"modules"`
}

func CourseOutlinePrompt(topic string, level models.CourseLevel, moduleCount int) []Message {
	return []Message{
		{Role: RoleSystem, Content: "You are an experienced instructional designer."},
		{Role: RoleUser, Content: fmt.Sprintf(
			"Create a %s level course outline about %q with exactly %d modules, each with 2 to 5 lessons. "+
				`Use the shape {"title":"","description":"","modules":[{"title":"","description":"",`+
				`"lessons":[{"title":"","content":"","duration_minutes":0}]}]}. %s`,
			level, topic, moduleCount, jsonOnly)},
	}
}

type CourseDescription struct {
	Description string `json:"description"`
}

func CourseDescriptionPrompt(title, category string, level models.CourseLevel, keywords []string) []Message {
	return []Message{
		{Role: RoleSystem, Content: "You write concise, engaging course descriptions."},
		{Role: RoleUser, Content: fmt.Sprintf(
			"Write a description of 120 to 200 words for the course %q. Category: %s. Level: %s. Keywords: %s. "+
				`Use the shape {"description":""}. %s`,
			title, orNone(category), orNone(string(level)), joinOrNone(keywords), jsonOnly)},
	}
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

func QuizPrompt(topic, material string, count int, difficulty string) []Message {
	user := fmt.Sprintf(
		"Write %d %s multiple-choice questions about %q. Each question has exactly 4 options, "+
			"the zero-based index of the correct option and a one sentence explanation. ",
		count, difficulty, topic)
	if material != "" {
		user += "Base the questions on this course material:\n" + material + "\n"
	}
	user += `Use the shape {"questions":[{"question":"","options":["","","",""],"answer_index":0,"explanation":""}]}. ` + jsonOnly

	return []Message{
		{Role: RoleSystem, Content: "You are a teacher writing assessment questions."},
		{Role: RoleUser, Content: user},
	}
}

func ThumbnailPrompt(title, category, description string) string {
	p := fmt.Sprintf("A clean, modern course cover illustration for an online course titled %q", title)
	if category != "" {
		p += " in the " + category + " category"
	}
	if description != "" {
		p += ". Theme: " + truncate(description, 300)
	}
	return p + ". No text, flat design, vibrant colors."
}

const counselorPrompt = "You are a supportive student wellness counselor on an e-learning platform. " +
	"Listen carefully, respond with empathy, and offer practical study and self-care suggestions. " +
	"You are not a medical professional; if the student mentions self-harm or a crisis, encourage them " +
	"to contact local emergency services or a crisis hotline immediately. Keep answers under 200 words."

// CounselingMessages builds the conversation: system prompt, recent moods, then history
func CounselingMessages(moods []*models.MoodEntry, history []models.ChatMessage) []Message {
	system := counselorPrompt
	if len(moods) > 0 {
		var b strings.Builder
		b.WriteString("\n\nThe student's recent mood journal (newest first):\n")
		for _, m := range moods {
			fmt.Fprintf(&b, "- %s: %s (intensity %d/10)", m.EntryDate.Format(models.DateLayout), m.Mood, m.Intensity)
			if m.Note != "" {
				fmt.Fprintf(&b, ", note: %s", truncate(m.Note, 200))
			}
			b.WriteString("\n")
		}
		system += b.String()
	}

	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	for _, h := range history {
		role := RoleUser
		if h.Role == models.ChatRoleAssistant {
			role = RoleAssistant
		}
		msgs = append(msgs, Message{Role: role, Content: h.Content})
	}
	return msgs
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none given"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
