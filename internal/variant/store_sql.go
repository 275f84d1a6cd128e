package variant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrVariantNotFound = errors.New("variant not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) LoadCodes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT variant_code FROM student_variants`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes[c] = struct{}{}
	}
	return codes, rows.Err()
}

func (s *SQLStore) ReplaceForTest(ctx context.Context, testID string, vs []StudentVariant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM student_variants WHERE test_id=$1`, testID); err != nil {
		return err
	}
	for _, v := range vs {
		qj, err := json.Marshal(v.Questions)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO student_variants (test_id,student_id,variant_code,questions_json,created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			v.TestID, v.StudentID, v.Code, string(qj), v.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListForTest(ctx context.Context, testID string) ([]StudentVariant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT test_id,student_id,variant_code,questions_json,created_at
		FROM student_variants WHERE test_id=$1 ORDER BY student_id`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StudentVariant
	for rows.Next() {
		v, err := scanVariant(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetByCode(ctx context.Context, code string) (StudentVariant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT test_id,student_id,variant_code,questions_json,created_at
		FROM student_variants WHERE variant_code=$1`, code)
	v, err := scanVariant(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return StudentVariant{}, ErrVariantNotFound
	}
	return v, err
}

// DeleteForTest drops all variants of a test, used when its questions are
// edited after generation (prior variants and printed keys become invalid).
func (s *SQLStore) DeleteForTest(ctx context.Context, testID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM student_variants WHERE test_id=$1`, testID)
	return err
}

func scanVariant(scan func(...interface{}) error) (StudentVariant, error) {
	var v StudentVariant
	var qjson string
	if err := scan(&v.TestID, &v.StudentID, &v.Code, &qjson, &v.CreatedAt); err != nil {
		return StudentVariant{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &v.Questions); err != nil {
		return StudentVariant{}, err
	}
	return v, nil
}
