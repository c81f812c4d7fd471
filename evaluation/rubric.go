package evaluation

import (
	"fmt"
	"strings"
)

// Rubric names one judged quality and carries the grading instructions handed
// to the judge model. Scores run from 1 (worst) to 5 (best); scoring itself
// is the judge model's business, not the harness's.
type Rubric struct {
	Name        string
	Instruction string
}

// The built-in rubric set mirrors the agent-workflow qualities this system is
// scored on: how well the response resolves the user's intent, sticks to the
// requested task, uses its tools, and reads as a relevant, coherent answer.
var (
	// RubricIntentResolution judges whether the response resolves the
	// user's underlying intent.
	RubricIntentResolution = Rubric{
		Name: "intent_resolution",
		Instruction: "Judge whether the assistant response correctly identifies and fully resolves " +
			"the intent behind the user's request. A 5 resolves the intent completely; a 1 misses it entirely.",
	}

	// RubricTaskAdherence judges whether the response follows the task the
	// user laid out, step by step.
	RubricTaskAdherence = Rubric{
		Name: "task_adherence",
		Instruction: "Judge whether the assistant response adheres to the task and steps the user requested, " +
			"without skipping, reordering or inventing steps. A 5 follows the task exactly; a 1 ignores it.",
	}

	// RubricToolCallAccuracy judges whether the recorded tool calls were the
	// right ones for the request.
	RubricToolCallAccuracy = Rubric{
		Name: "tool_call_accuracy",
		Instruction: "Judge whether the tool calls made during the run were appropriate and sufficient for " +
			"the user's request, with correct arguments. If no tool calls are listed, judge whether none were needed. " +
			"A 5 means every call was right and nothing was missing; a 1 means the calls were wrong or harmful.",
	}

	// RubricRelevance judges whether the response stays on the user's question.
	RubricRelevance = Rubric{
		Name: "relevance",
		Instruction: "Judge how relevant the assistant response is to the user's query. " +
			"A 5 addresses the query directly and completely; a 1 is off-topic.",
	}

	// RubricCoherence judges the logical flow and readability of the response.
	RubricCoherence = Rubric{
		Name: "coherence",
		Instruction: "Judge the coherence of the assistant response: logical flow, internal consistency and " +
			"readability. A 5 is well structured and consistent; a 1 is contradictory or unreadable.",
	}
)

// DefaultRubrics returns the full built-in rubric set.
func DefaultRubrics() []Rubric {
	return []Rubric{
		RubricIntentResolution,
		RubricTaskAdherence,
		RubricToolCallAccuracy,
		RubricRelevance,
		RubricCoherence,
	}
}

// JudgePrompt renders the user-side prompt a judge model grades against.
func JudgePrompt(r Rubric, input *EvalInput) string {
	var sb strings.Builder
	sb.WriteString("Grade the following agent interaction.\n\n")
	fmt.Fprintf(&sb, "User query:\n%s\n\n", input.Query)
	fmt.Fprintf(&sb, "Assistant response:\n%s\n\n", input.Response)
	if len(input.ToolCalls) > 0 {
		sb.WriteString("Tool calls made during the run:\n")
		for _, tc := range input.ToolCalls {
			fmt.Fprintf(&sb, "- %s(%s)", tc.Name, tc.Arguments)
			if tc.Output != "" {
				fmt.Fprintf(&sb, " -> %s", tc.Output)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No tool calls were recorded for the run.\n\n")
	}
	fmt.Fprintf(&sb, "Rubric (%s): %s\n", r.Name, r.Instruction)
	sb.WriteString("Respond with a score from 1 to 5 and a short reason.")
	return sb.String()
}
