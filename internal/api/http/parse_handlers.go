package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/bilimtest/bilimtest-server/internal/docparse"
	"github.com/bilimtest/bilimtest-server/internal/docparse/convert"
	"github.com/bilimtest/bilimtest-server/internal/docparse/mathrun"
	"github.com/bilimtest/bilimtest-server/internal/docparse/segment"
	"github.com/bilimtest/bilimtest-server/internal/testbank"
)

// parsedQuestionView decorates a parsed question with render-ready runs
// and the proposed authoring-schema question for the review UI.
type parsedQuestionView struct {
	segment.ParsedQuestion
	TextRuns   []mathrun.Run     `json:"text_runs"`
	OptionRuns [][]mathrun.Run   `json:"option_runs"`
	Proposed   testbank.Question `json:"proposed"`
}

// POST /parse (multipart: file=<document>, profile=chemistry|biology|generic)
func ParseDocumentHandler(conv *convert.Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		prof := docparse.ProfileByName(r.FormValue("profile"))
		parser := docparse.NewParser(conv, prof)

		questions, err := parser.ParseBytes(r.Context(), data, filepath.Ext(hdr.Filename))
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, convert.ErrToolNotFound) {
				status = http.StatusServiceUnavailable
			}
			http.Error(w, "parse: "+err.Error(), status)
			return
		}

		views := make([]parsedQuestionView, 0, len(questions))
		for _, q := range questions {
			v := parsedQuestionView{
				ParsedQuestion: q,
				TextRuns:       mathrun.Extract(q.Text),
				Proposed:       testbank.FromParsed(q),
			}
			for _, o := range q.Options {
				v.OptionRuns = append(v.OptionRuns, mathrun.Extract(o.Text))
			}
			views = append(views, v)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"profile":   prof.Name,
			"questions": views,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
