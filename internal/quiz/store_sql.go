package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
)

// NewID returns a fresh entity ID.
func NewID() string { return uuid.NewString() }

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) FindQuiz(ctx context.Context, name, course string, year int) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,course,year FROM quizzes WHERE name=$1 AND course=$2 AND year=$3`,
		name, course, year)
	return scanQuiz(row)
}

func (s *SQLStore) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		q.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO quizzes (id,name,course,year,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name, course, year) DO NOTHING`,
		q.ID, q.Name, q.Course, q.Year, time.Now().Unix())
	if err != nil {
		return Quiz{}, err
	}
	// another writer may have won the unique key
	return s.FindQuiz(ctx, q.Name, q.Course, q.Year)
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,course,year FROM quizzes WHERE id=$1`, id)
	return scanQuiz(row)
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,course,year FROM quizzes ORDER BY year DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.Name, &q.Course, &q.Year); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func scanQuiz(row *sql.Row) (Quiz, error) {
	var q Quiz
	if err := row.Scan(&q.ID, &q.Name, &q.Course, &q.Year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) FindAuthorByName(ctx context.Context, name string) (Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,initials FROM authors WHERE LOWER(name)=LOWER($1) ORDER BY created_at ASC LIMIT 1`, name)
	var a Author
	if err := row.Scan(&a.ID, &a.Name, &a.Initials); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}
	return a, nil
}

func (s *SQLStore) CreateAuthor(ctx context.Context, a Author) (Author, error) {
	if a.ID == "" {
		a.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO authors (id,name,initials,created_at) VALUES ($1,$2,$3,$4)`,
		a.ID, a.Name, a.Initials, time.Now().Unix())
	if err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAuthors(ctx context.Context) ([]Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,initials FROM authors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Initials); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) FindQuizAuthor(ctx context.Context, quizID, authorID, filePath string) (QuizAuthor, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,author_id,file_path,template FROM quiz_authors
		WHERE quiz_id=$1 AND author_id=$2 AND file_path=$3`, quizID, authorID, filePath)
	var qa QuizAuthor
	var tmpl string
	if err := row.Scan(&qa.ID, &qa.QuizID, &qa.AuthorID, &qa.FilePath, &tmpl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuizAuthor{}, ErrNotFound
		}
		return QuizAuthor{}, err
	}
	qa.Template = layout.TemplateType(tmpl)
	return qa, nil
}

func (s *SQLStore) CreateQuizAuthor(ctx context.Context, qa QuizAuthor) (QuizAuthor, error) {
	if qa.ID == "" {
		qa.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_authors (id,quiz_id,author_id,file_path,template,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		qa.ID, qa.QuizID, qa.AuthorID, qa.FilePath, string(qa.Template), time.Now().Unix())
	if err != nil {
		return QuizAuthor{}, err
	}
	return qa, nil
}

// DeleteQuizAuthor deletes children explicitly so the cascade does not depend on
// sqlite's foreign_keys pragma being on for this connection.
func (s *SQLStore) DeleteQuizAuthor(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_errors WHERE quiz_author_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_author_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM quiz_authors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) CreateQuestions(ctx context.Context, qs []Question) error {
	if len(qs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range qs {
		q := &qs[i]
		if q.ID == "" {
			q.ID = NewID()
		}
		oj, err := json.Marshal(q.Options)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO questions
			(id,quiz_author_id,kind,row_no,sheet_row,course,title,body,options_json,weight_true,weight_false)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			q.ID, q.QuizAuthorID, string(q.Kind), q.Row, q.SheetRow, q.Course, q.Title, q.Text, string(oj),
			nullFloat(q.WeightTrue), nullFloat(q.WeightFalse))
		if err != nil {
			return fmt.Errorf("insert question row %d: %w", q.Row, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	query := `SELECT q.id,q.quiz_author_id,q.kind,q.row_no,q.sheet_row,q.course,q.title,q.body,q.options_json,q.weight_true,q.weight_false
		FROM questions q JOIN quiz_authors qa ON qa.id=q.quiz_author_id
		WHERE ($1='' OR qa.quiz_id=$1)
		ORDER BY qa.file_path ASC, q.sheet_row ASC`
	query, args := withPage(query, []any{opts.QuizID}, opts)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		var kind, oj string
		var wt, wf sql.NullFloat64
		if err := rows.Scan(&q.ID, &q.QuizAuthorID, &kind, &q.Row, &q.SheetRow, &q.Course, &q.Title, &q.Text, &oj, &wt, &wf); err != nil {
			return nil, err
		}
		q.Kind = Kind(kind)
		if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
			return nil, fmt.Errorf("question %s options: %w", q.ID, err)
		}
		q.WeightTrue = floatPtr(wt)
		q.WeightFalse = floatPtr(wf)
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateQuizErrors(ctx context.Context, es []QuizError) error {
	if len(es) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range es {
		e := &es[i]
		if e.ID == "" {
			e.ID = NewID()
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO quiz_errors (id,quiz_author_id,question_id,row_no,description,file_path)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			e.ID, nullString(e.QuizAuthorID), nullString(e.QuestionID), e.Row, e.Description, e.FilePath)
		if err != nil {
			return fmt.Errorf("insert quiz error row %d: %w", e.Row, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListQuizErrors(ctx context.Context, opts ListOpts) ([]QuizError, error) {
	query := `SELECT e.id,e.quiz_author_id,e.question_id,e.row_no,e.description,e.file_path
		FROM quiz_errors e LEFT JOIN quiz_authors qa ON qa.id=e.quiz_author_id
		WHERE ($1='' OR qa.quiz_id=$1)
		ORDER BY e.file_path ASC, e.row_no ASC`
	query, args := withPage(query, []any{opts.QuizID}, opts)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuizError
	for rows.Next() {
		var e QuizError
		var qaID, qID sql.NullString
		if err := rows.Scan(&e.ID, &qaID, &qID, &e.Row, &e.Description, &e.FilePath); err != nil {
			return nil, err
		}
		e.QuizAuthorID = qaID.String
		e.QuestionID = qID.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteQuizErrors(ctx context.Context, quizID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_errors
		WHERE $1='' OR quiz_author_id IN (SELECT id FROM quiz_authors WHERE quiz_id=$1)`, quizID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func withPage(query string, args []any, opts ListOpts) (string, []any) {
	if opts.Limit > 0 {
		args = append(args, opts.Limit, opts.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return query, args
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
