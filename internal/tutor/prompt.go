package tutor

import (
	"fmt"
	"strings"

	"tutor-service/internal/models"
)

// buildSystemPrompt assembles the tutor instructions for one question.
// When shared content is attached its text or image context is folded in,
// and the question's position in the content is announced when known.
func buildSystemPrompt(subject string, question *models.Question, content *models.SharedContent, questionNumber, totalQuestions int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a Socratic tutor focused on %s.\n", subject)
	b.WriteString("Your goal is to guide the student through the Socratic method so they discover the answer on their own.\n")
	b.WriteString("Do not reveal the answer directly; instead ask questions that lead the student to the correct answer.\n")
	b.WriteString("You are an expert at promoting critical thinking.")

	if content != nil {
		switch content.ContentType {
		case models.ContentTypeText:
			fmt.Fprintf(&b, "\nThe student is working with the following text: %q", content.TextContent)
		case models.ContentTypeImage, models.ContentTypeGraph:
			kind := "image"
			if content.ContentType == models.ContentTypeGraph {
				kind = "graph"
			}
			fmt.Fprintf(&b, "\nThe student is working with a %s titled %q", kind, content.Title)
			if content.ImageDescription != "" {
				fmt.Fprintf(&b, "\nImage description: %s", content.ImageDescription)
			}
			if len(content.ImageElements) > 0 {
				b.WriteString("\nThe image contains the following important elements:")
				for _, el := range content.ImageElements {
					fmt.Fprintf(&b, "\n- Element %d: %s", el.ElementID, el.Description)
					if el.Coordinates != "" {
						fmt.Fprintf(&b, " (located at %s)", el.Coordinates)
					}
				}
			}
		case models.ContentTypeMixed:
			fmt.Fprintf(&b, "\nThe student is working with mixed content titled %q", content.Title)
			if content.TextContent != "" {
				fmt.Fprintf(&b, "\nText: %q", content.TextContent)
			}
			if content.ImageDescription != "" {
				fmt.Fprintf(&b, "\nImage description: %s", content.ImageDescription)
			}
		}
	}

	fmt.Fprintf(&b, "\nThe current question is: %q", question.QuestionText)
	if totalQuestions > 1 {
		fmt.Fprintf(&b, " (question %d of %d)", questionNumber, totalQuestions)
	}
	fmt.Fprintf(&b, ".\nThe options are: %s.", joinOptions(question.Options))
	if correct := question.CorrectOption(); correct != nil {
		fmt.Fprintf(&b, "\nThe correct answer is: %q.", correct.Text)
	}
	b.WriteString("\nStart by greeting the student and presenting the current question, then begin the Socratic dialogue.")
	b.WriteString("\nDO NOT GIVE THE CORRECT ANSWER DIRECTLY.")

	return b.String()
}

// buildAnalysisPrompt asks the model to judge the student's last message
// against the correct option. The reply is parsed by parseAnalysisVerdict.
func buildAnalysisPrompt(correctAnswer string) string {
	return fmt.Sprintf("Analyze whether the student's answer is correct. The correct answer is: %q.\n"+
		"Reply ONLY with \"true\" if the student's answer is correct, or \"false\" if it is incorrect.", correctAnswer)
}

func parseAnalysisVerdict(reply string) bool {
	lower := strings.ToLower(reply)
	if strings.Contains(lower, "false") || strings.Contains(lower, "incorrect") {
		return false
	}
	return strings.Contains(lower, "true") || strings.Contains(lower, "correct")
}

// buildCongratulationPrompt is injected as a system turn once the student
// reaches the right answer.
func buildCongratulationPrompt(correctAnswer string) string {
	return fmt.Sprintf("The student has reached the correct answer: %q.\n"+
		"Congratulate them for getting there and briefly explain why this is the correct answer.", correctAnswer)
}

func buildElementPrompt(element *models.ImageElement, content *models.SharedContent) string {
	return fmt.Sprintf("Briefly explain what this element represents in the image:\n%s\n\n"+
		"General context of the image:\n%s\n\n"+
		"Provide a short, clear explanation that helps understand this specific element.",
		element.Description, content.ImageDescription)
}

func joinOptions(options []models.Option) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = fmt.Sprintf("%q", opt.Text)
	}
	return strings.Join(parts, ", ")
}
