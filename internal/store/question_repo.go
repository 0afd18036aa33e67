package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/examiz/internal/question"
)

// insertBatch bounds the rows per INSERT to stay under SQLite's
// bound-parameter limit.
const insertBatch = 200

// QuestionRepo stores an imported question bank.
type QuestionRepo struct {
	drv *entsql.Driver
}

// ReplaceAll swaps the stored bank for qs in one transaction.
func (r *QuestionRepo) ReplaceAll(ctx context.Context, qs []question.Question) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, args := builder().Delete(questionsTableName).Query()
	if err := tx.Exec(ctx, stmt, args, nil); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	for start := 0; start < len(qs); start += insertBatch {
		end := min(start+insertBatch, len(qs))
		ins := builder().Insert(questionsTableName).
			Columns(colID, colPosition, colText, colOptions, colCorrectAnswer, colExplanation, colCategory)
		for i, q := range qs[start:end] {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("encode options for question %d: %w", q.ID, err)
			}
			var answer sql.NullString
			if ans, ok := q.Answer(); ok {
				answer = sql.NullString{String: ans, Valid: true}
			}
			ins.Values(q.ID, start+i, q.Text, string(opts), answer, q.Explanation, q.Category)
		}
		stmt, args := ins.Query()
		if err := tx.Exec(ctx, stmt, args, nil); err != nil {
			return fmt.Errorf("insert questions %d-%d: %w", start+1, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// All returns every stored question in import order.
func (r *QuestionRepo) All(ctx context.Context) ([]question.Question, error) {
	return r.list(ctx, r.selectQuestions())
}

// ByCategory returns the stored questions tagged category, in import order.
func (r *QuestionRepo) ByCategory(ctx context.Context, category string) ([]question.Question, error) {
	return r.list(ctx, r.selectQuestions().Where(entsql.EQ(colCategory, category)))
}

func (r *QuestionRepo) selectQuestions() *entsql.Selector {
	return builder().Select(questionColumns...).
		From(entsql.Table(questionsTableName)).
		OrderBy(colPosition)
}

func (r *QuestionRepo) list(ctx context.Context, sel *entsql.Selector) ([]question.Question, error) {
	var out []question.Question
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			q      question.Question
			opts   string
			answer sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.Text, &opts, &answer, &q.Explanation, &q.Category); err != nil {
			return fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return fmt.Errorf("decode options for question %d: %w", q.ID, err)
		}
		if answer.Valid {
			q.CorrectAnswer = question.Label(answer.String)
		}
		out = append(out, q)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	return out, nil
}

// Count returns the number of stored questions.
func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	sel := builder().Select(entsql.Count("*")).From(entsql.Table(questionsTableName))
	var n int
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// Categories returns question counts by category.
func (r *QuestionRepo) Categories(ctx context.Context) (map[string]int, error) {
	sel := builder().Select(colCategory, entsql.Count("*")).
		From(entsql.Table(questionsTableName)).
		GroupBy(colCategory)

	out := make(map[string]int)
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			c string
			n int
		)
		if err := rows.Scan(&c, &n); err != nil {
			return err
		}
		out[c] = n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return out, nil
}
