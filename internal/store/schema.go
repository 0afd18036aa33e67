package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Column names shared by the table definitions and the query builders.
const (
	questionsTableName = "questions"
	eventsTableName    = "llm_request_events"

	colID            = "id"
	colPosition      = "position"
	colText          = "text"
	colOptions       = "options"
	colCorrectAnswer = "correct_answer"
	colExplanation   = "explanation"
	colCategory      = "category"

	colSequence     = "sequence"
	colTimestamp    = "timestamp"
	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colSuccess      = "success"
	colErrorMessage = "error_message"
	colRequestBody  = "request_body"
	colResponseBody = "response_body"
)

var (
	// questionsColumns holds an imported bank. position keeps import order;
	// options is the ordered JSON object of label -> text.
	questionsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colPosition, Type: field.TypeInt},
		{Name: colText, Type: field.TypeString, Size: 2147483647},
		{Name: colOptions, Type: field.TypeString, Size: 2147483647},
		{Name: colCorrectAnswer, Type: field.TypeString, Nullable: true},
		{Name: colExplanation, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colCategory, Type: field.TypeString},
	}
	questionsTable = &schema.Table{
		Name:       questionsTableName,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "question_category", Columns: []*schema.Column{questionsColumns[6]}},
		},
	}

	// llmRequestEventsColumns records every LLM API call.
	llmRequestEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colInputTokens, Type: field.TypeInt, Default: 0},
		{Name: colOutputTokens, Type: field.TypeInt, Default: 0},
		{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
		{Name: colRequestBody, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colResponseBody, Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       eventsTableName,
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmRequestEventsColumns[4]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
		},
	}

	// tables lists every table the store migrates.
	tables = []*schema.Table{
		questionsTable,
		llmRequestEventsTable,
	}
)

// llmEventColumns is the select list scanned by scanLLMEvent.
var llmEventColumns = []string{
	colID, colSequence, colTimestamp, colProvider, colModel, colPurpose,
	colInputTokens, colOutputTokens, colLatencyMs, colSuccess,
	colErrorMessage, colRequestBody, colResponseBody,
}

// questionColumns is the select list scanned by QuestionRepo.
var questionColumns = []string{
	colID, colText, colOptions, colCorrectAnswer, colExplanation, colCategory,
}
