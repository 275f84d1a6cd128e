package testbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("test not found")

type ListOpts struct {
	OwnerID string
	Kind    string
	Limit   int
	Offset  int
}

type TestSummary struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)
	PutBlockTest(ctx context.Context, bt BlockTest) error
	GetBlockTest(ctx context.Context, id string) (BlockTest, error)
	List(ctx context.Context, opts ListOpts) ([]TestSummary, error)
	SetStatus(ctx context.Context, id, status string) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	return s.put(ctx, t.ID, KindTest, t.Title, t.Subject, t.Class, t.Group, t.OwnerID, t.Status, string(qj), t.CreatedAt)
}

func (s *SQLStore) PutBlockTest(ctx context.Context, bt BlockTest) error {
	gj, err := json.Marshal(bt.Groups)
	if err != nil {
		return err
	}
	return s.put(ctx, bt.ID, KindBlockTest, bt.Title, "", bt.Class, bt.Group, bt.OwnerID, bt.Status, string(gj), bt.CreatedAt)
}

func (s *SQLStore) put(ctx context.Context, id, kind, title, subject, class, group, owner, status, payload string, createdAt int64) error {
	if status == "" {
		status = StatusDraft
	}
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO tests (id,kind,title,subject,class_name,group_name,owner_id,status,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, subject=EXCLUDED.subject,
			class_name=EXCLUDED.class_name, group_name=EXCLUDED.group_name,
			status=EXCLUDED.status, questions_json=EXCLUDED.questions_json`,
		id, kind, title, subject, class, group, owner, status, payload, createdAt)
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	var t Test
	var kind, qjson string
	row := s.db.QueryRowContext(ctx, `SELECT id,kind,title,subject,class_name,group_name,owner_id,status,questions_json,created_at FROM tests WHERE id=$1`, id)
	if err := row.Scan(&t.ID, &kind, &t.Title, &t.Subject, &t.Class, &t.Group, &t.OwnerID, &t.Status, &qjson, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrNotFound
		}
		return Test{}, err
	}
	if kind != KindTest {
		return Test{}, fmt.Errorf("%s is a %s, not a test", id, kind)
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) GetBlockTest(ctx context.Context, id string) (BlockTest, error) {
	var bt BlockTest
	var kind, subject, gjson string
	row := s.db.QueryRowContext(ctx, `SELECT id,kind,title,subject,class_name,group_name,owner_id,status,questions_json,created_at FROM tests WHERE id=$1`, id)
	if err := row.Scan(&bt.ID, &kind, &bt.Title, &subject, &bt.Class, &bt.Group, &bt.OwnerID, &bt.Status, &gjson, &bt.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BlockTest{}, ErrNotFound
		}
		return BlockTest{}, err
	}
	if kind != KindBlockTest {
		return BlockTest{}, fmt.Errorf("%s is a %s, not a block test", id, kind)
	}
	if err := json.Unmarshal([]byte(gjson), &bt.Groups); err != nil {
		return BlockTest{}, err
	}
	return bt, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]TestSummary, error) {
	q := `SELECT id,kind,title,subject,status,created_at FROM tests WHERE 1=1`
	args := []interface{}{}
	n := 0
	add := func(clause string, v interface{}) {
		n++
		q += fmt.Sprintf(" AND %s=$%d", clause, n)
		args = append(args, v)
	}
	if opts.OwnerID != "" {
		add("owner_id", opts.OwnerID)
	}
	if opts.Kind != "" {
		add("kind", opts.Kind)
	}
	q += " ORDER BY created_at DESC"
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TestSummary
	for rows.Next() {
		var ts TestSummary
		if err := rows.Scan(&ts.ID, &ts.Kind, &ts.Title, &ts.Subject, &ts.Status, &ts.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tests SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
