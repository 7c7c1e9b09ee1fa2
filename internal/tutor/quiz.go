package tutor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/xaenox/tutor-bot/internal/assistant"
)

// FunctionName is the function tool the assistant calls to quiz the student.
const FunctionName = "display_quiz"

type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	FreeResponse   QuestionType = "FREE_RESPONSE"
)

type Question struct {
	Text    string       `json:"question_text"`
	Type    QuestionType `json:"question_type"`
	Choices []string     `json:"choices,omitempty"`
}

type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// QuizFunction is the JSON-schema declaration of display_quiz that gets
// attached to the assistant.
func QuizFunction() *openai.FunctionDefinition {
	return &openai.FunctionDefinition{
		Name:        FunctionName,
		Description: "Displays a quiz to the student, and returns the student's response. A single quiz can have multiple questions.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"title": {Type: jsonschema.String},
				"questions": {
					Type:        jsonschema.Array,
					Description: "An array of questions, each with a title and potentially options (if multiple choice).",
					Items: &jsonschema.Definition{
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"question_text": {Type: jsonschema.String},
							"question_type": {
								Type: jsonschema.String,
								Enum: []string{string(MultipleChoice), string(FreeResponse)},
							},
							"choices": {
								Type:  jsonschema.Array,
								Items: &jsonschema.Definition{Type: jsonschema.String},
							},
						},
						Required: []string{"question_text"},
					},
				},
			},
			Required: []string{"title", "questions"},
		},
	}
}

// Console renders quizzes and collects one answer per question. The reader
// is the student's input; tests script it.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Display prints the quiz and reads the student's answers in question order.
func (c *Console) Display(quiz Quiz) ([]string, error) {
	fmt.Fprintf(c.out, "Quiz: %s\n\n", quiz.Title)

	responses := make([]string, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		fmt.Fprintln(c.out, q.Text)
		if q.Type == MultipleChoice {
			for i, choice := range q.Choices {
				fmt.Fprintf(c.out, "%d. %s\n", i, choice)
			}
		}
		answer, err := c.readLine()
		if err != nil {
			return nil, fmt.Errorf("read answer for %q: %w", q.Text, err)
		}
		responses = append(responses, answer)
		fmt.Fprintln(c.out)
	}
	return responses, nil
}

// Handler adapts the console into the waiter's tool handler: it decodes the
// quiz from the tool-call arguments, runs it and returns the answers as a
// JSON array for submission back into the run.
func (c *Console) Handler() assistant.ToolHandler {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var quiz Quiz
		if err := json.Unmarshal(args, &quiz); err != nil {
			return "", fmt.Errorf("decode quiz arguments: %w", err)
		}
		responses, err := c.Display(quiz)
		if err != nil {
			return "", err
		}
		out, err := json.Marshal(responses)
		if err != nil {
			return "", fmt.Errorf("encode quiz responses: %w", err)
		}
		return string(out), nil
	}
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}
