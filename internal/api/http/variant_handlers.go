package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bilimtest/bilimtest-server/internal/testbank"
	"github.com/bilimtest/bilimtest-server/internal/variant"
)

// POST /tests/{testID}/variants  { "student_ids": ["..."] }
func GenerateVariantsHandler(engine *variant.Engine, tests testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		var req struct {
			StudentIDs []string `json:"student_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(req.StudentIDs) == 0 {
			http.Error(w, "student_ids required", http.StatusBadRequest)
			return
		}

		var (
			vs  []variant.StudentVariant
			err error
		)
		if t, getErr := tests.GetTest(r.Context(), id); getErr == nil {
			if t.Status != testbank.StatusPublished {
				http.Error(w, "test not published", http.StatusConflict)
				return
			}
			vs, err = engine.Generate(r.Context(), t, req.StudentIDs)
		} else if bt, berr := tests.GetBlockTest(r.Context(), id); berr == nil {
			if bt.Status != testbank.StatusPublished {
				http.Error(w, "test not published", http.StatusConflict)
				return
			}
			vs, err = engine.GenerateBlock(r.Context(), bt, req.StudentIDs)
		} else {
			httpErrNotFound(w, getErr)
			return
		}

		if err != nil {
			var verr *variant.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
					"error":   "ungradable questions",
					"defects": verr.Defects,
				})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, vs)
	}
}

// GET /tests/{testID}/variants
func ListVariantsHandler(store variant.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vs, err := store.ListForTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, vs)
	}
}

// GET /variants/{code} — the lookup consumed by proctors grading a
// printed/QR-coded answer sheet.
func GetVariantHandler(store variant.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.GetByCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			if errors.Is(err, variant.ErrVariantNotFound) {
				http.Error(w, "variant not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"variant":    v,
			"answer_key": v.AnswerKey(),
		})
	}
}
