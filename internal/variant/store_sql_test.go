package variant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bilimtest/bilimtest-server/internal/db"
	"github.com/bilimtest/bilimtest-server/internal/testbank"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	// parent rows for the foreign key
	tests := testbank.NewSQLStore(conn)
	for _, id := range []string{"t1", "t2"} {
		if err := tests.PutTest(ctx, testbank.Test{ID: id, Title: id}); err != nil {
			t.Fatal(err)
		}
	}
	return NewSQLStore(conn)
}

func sampleVariant(testID, studentID, code string) StudentVariant {
	return StudentVariant{
		TestID:    testID,
		StudentID: studentID,
		Code:      code,
		Questions: []ShuffledQuestion{{
			OriginalIndex: 0,
			Text:          "savol",
			Variants: []testbank.QuestionVariant{
				{Letter: "A", Text: "bir"},
				{Letter: "B", Text: "ikki"},
				{Letter: "C", Text: "uch"},
				{Letter: "D", Text: "to'rt"},
			},
			CorrectAnswer: "C",
			Points:        1,
		}},
		CreatedAt: 100,
	}
}

func TestSQLStoreVariantRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	batch := []StudentVariant{
		sampleVariant("t1", "s1", "ABC234"),
		sampleVariant("t1", "s2", "XYZ789"),
	}
	if err := store.ReplaceForTest(ctx, "t1", batch); err != nil {
		t.Fatal(err)
	}

	got, err := store.ListForTest(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("ListForTest = %d, want 2", len(got))
	}
	if got[0].StudentID != "s1" || got[1].StudentID != "s2" {
		t.Errorf("not ordered by student: %v", got)
	}
	if got[0].Questions[0].CorrectAnswer != "C" {
		t.Errorf("question payload mismatch: %+v", got[0].Questions)
	}

	byCode, err := store.GetByCode(ctx, "XYZ789")
	if err != nil {
		t.Fatal(err)
	}
	if byCode.StudentID != "s2" {
		t.Errorf("GetByCode student = %q, want s2", byCode.StudentID)
	}

	codes, err := store.LoadCodes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := codes["ABC234"]; !ok || len(codes) != 2 {
		t.Errorf("LoadCodes = %v", codes)
	}
}

func TestSQLStoreReplaceIsFullReplace(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := []StudentVariant{
		sampleVariant("t1", "s1", "AAAAAA"),
		sampleVariant("t1", "s2", "BBBBBB"),
		sampleVariant("t1", "s3", "CCCCCC"),
	}
	if err := store.ReplaceForTest(ctx, "t1", first); err != nil {
		t.Fatal(err)
	}
	second := []StudentVariant{
		sampleVariant("t1", "s1", "DDDDDD"),
	}
	if err := store.ReplaceForTest(ctx, "t1", second); err != nil {
		t.Fatal(err)
	}

	got, _ := store.ListForTest(ctx, "t1")
	if len(got) != 1 || got[0].Code != "DDDDDD" {
		t.Errorf("replace left stale rows: %v", got)
	}
	if _, err := store.GetByCode(ctx, "AAAAAA"); !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("stale code still resolvable: %v", err)
	}
}

func TestSQLStoreReplaceScopedToTest(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.ReplaceForTest(ctx, "t1", []StudentVariant{sampleVariant("t1", "s1", "AAAAAA")}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceForTest(ctx, "t2", []StudentVariant{sampleVariant("t2", "s1", "BBBBBB")}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceForTest(ctx, "t2", nil); err != nil {
		t.Fatal(err)
	}

	got, _ := store.ListForTest(ctx, "t1")
	if len(got) != 1 {
		t.Errorf("other test's replace touched t1: %v", got)
	}
	gone, _ := store.ListForTest(ctx, "t2")
	if len(gone) != 0 {
		t.Errorf("t2 not cleared: %v", gone)
	}
}

func TestSQLStoreDeleteForTest(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.ReplaceForTest(ctx, "t1", []StudentVariant{sampleVariant("t1", "s1", "AAAAAA")}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteForTest(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	got, _ := store.ListForTest(ctx, "t1")
	if len(got) != 0 {
		t.Errorf("DeleteForTest left rows: %v", got)
	}
}
