package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bilimtest/bilimtest-server/internal/testbank"
)

// VariantInvalidator drops a test's variants when its questions change;
// a half-edited test must never keep answer keys generated from the old
// question list.
type VariantInvalidator interface {
	DeleteForTest(ctx context.Context, testID string) error
}

type createTestReq struct {
	Kind      string                  `json:"kind"` // test|block_test
	Title     string                  `json:"title"`
	Subject   string                  `json:"subject"`
	Class     string                  `json:"class"`
	Group     string                  `json:"group"`
	Questions []testbank.Question     `json:"questions,omitempty"`
	Groups    []testbank.SubjectGroup `json:"groups,omitempty"`
}

// POST /tests
func CreateTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTestReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		id := uuid.NewString()
		now := time.Now().Unix()

		var err error
		if req.Kind == testbank.KindBlockTest {
			err = store.PutBlockTest(r.Context(), testbank.BlockTest{
				ID: id, Title: req.Title, Class: req.Class, Group: req.Group,
				Status: testbank.StatusDraft, Groups: req.Groups, CreatedAt: now,
			})
		} else {
			err = store.PutTest(r.Context(), testbank.Test{
				ID: id, Title: req.Title, Subject: req.Subject, Class: req.Class,
				Group: req.Group, Status: testbank.StatusDraft,
				Questions: req.Questions, CreatedAt: now,
			})
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// PUT /tests/{testID} — replaces the question list and invalidates any
// previously generated variants.
func UpdateTestHandler(store testbank.Store, inv VariantInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		var req createTestReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		var err error
		if req.Kind == testbank.KindBlockTest {
			bt, getErr := store.GetBlockTest(r.Context(), id)
			if getErr != nil {
				httpErrNotFound(w, getErr)
				return
			}
			bt.Title, bt.Class, bt.Group = req.Title, req.Class, req.Group
			bt.Groups = req.Groups
			bt.Status = testbank.StatusDraft
			err = store.PutBlockTest(r.Context(), bt)
		} else {
			t, getErr := store.GetTest(r.Context(), id)
			if getErr != nil {
				httpErrNotFound(w, getErr)
				return
			}
			t.Title, t.Subject, t.Class, t.Group = req.Title, req.Subject, req.Class, req.Group
			t.Questions = req.Questions
			t.Status = testbank.StatusDraft
			err = store.PutTest(r.Context(), t)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := inv.DeleteForTest(r.Context(), id); err != nil {
			http.Error(w, "invalidate variants: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": testbank.StatusDraft})
	}
}

// GET /tests/{testID}
func GetTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		t, err := store.GetTest(r.Context(), id)
		if err == nil {
			writeJSON(w, http.StatusOK, t)
			return
		}
		bt, berr := store.GetBlockTest(r.Context(), id)
		if berr == nil {
			writeJSON(w, http.StatusOK, bt)
			return
		}
		httpErrNotFound(w, err)
	}
}

// GET /tests?kind=&limit=&offset=
func ListTestsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		out, err := store.List(r.Context(), testbank.ListOpts{
			Kind:   r.URL.Query().Get("kind"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /tests/{testID}/publish — the explicit human-confirmation step:
// every question must carry a confirmed correct answer before variants
// are meant to be generated.
func PublishTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")

		if t, err := store.GetTest(r.Context(), id); err == nil {
			if err := t.ValidateForPublish(); err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
		} else if bt, berr := store.GetBlockTest(r.Context(), id); berr == nil {
			if err := bt.ValidateForPublish(); err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
		} else {
			httpErrNotFound(w, err)
			return
		}

		if err := store.SetStatus(r.Context(), id, testbank.StatusPublished); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": testbank.StatusPublished})
	}
}

func httpErrNotFound(w http.ResponseWriter, err error) {
	if errors.Is(err, testbank.ErrNotFound) {
		http.Error(w, "test not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
