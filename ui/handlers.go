package ui

import (
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/a7med3yad/DataProject/adapters/excel"
	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/errors"
	"github.com/a7med3yad/DataProject/internal/session"
	"github.com/a7med3yad/DataProject/internal/testkit"
)

func (a *App) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := a.registry.Create()
	log.Printf("[Sessions] created %s", s.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": s.ID,
		"params":     s.Params(),
	})
}

func (a *App) handleRemoveSession(w http.ResponseWriter, r *http.Request) {
	a.registry.Remove(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadDataset accepts a multipart spreadsheet upload, loads it into
// the session, and recomputes every output with the session's current
// parameters.
func (a *App) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// cap the body before the multipart parser reads it
	r.Body = http.MaxBytesReader(w, r.Body, a.config.Upload.MaxFileBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			writeError(w, errors.LoadError("uploaded file exceeds the size limit"))
			return
		}
		writeError(w, errors.LoadError("no dataset file uploaded"))
		return
	}
	defer file.Close()

	if !validExtension(header.Filename) {
		writeError(w, errors.LoadError("only .xlsx and .csv files are supported"))
		return
	}

	records, err := excel.NewUploadReader(header.Filename, file).ReadRecords()
	if err != nil {
		log.Printf("[Upload] FAILED for session %s: %v", s.ID, err)
		writeError(w, err)
		return
	}

	if err := s.LoadRecords(r.Context(), records); err != nil {
		writeError(w, err)
		return
	}

	results, err := s.Results()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record_count": len(records),
		"cleaning":     results.Cleaning,
		"rule_count":   len(results.Mining.Rules),
	})
}

// handleLoadDemo loads the seeded demo dataset into the session.
func (a *App) handleLoadDemo(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records := testkit.NewGroceryDataGenerator(testkit.DefaultGroceryConfig()).Generate()
	if err := s.LoadRecords(r.Context(), records); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"record_count": len(records)})
}

// handleSetParams validates and applies new analysis parameters. On a
// CONFIG_INVALID rejection the previous results stay available.
func (a *App) handleSetParams(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var params market.AnalysisParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, errors.ConfigInvalid("request body is not valid parameters JSON"))
		return
	}

	if err := s.SetParams(r.Context(), params); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"params": s.Params()})
}

func (a *App) handleResults(w http.ResponseWriter, r *http.Request) {
	a.writeResults(w, r, func(results *session.Results) interface{} { return results })
}

func (a *App) handleCleaning(w http.ResponseWriter, r *http.Request) {
	a.writeResults(w, r, func(results *session.Results) interface{} { return results.Cleaning })
}

func (a *App) handleRules(w http.ResponseWriter, r *http.Request) {
	a.writeResults(w, r, func(results *session.Results) interface{} {
		return map[string]interface{}{
			"rule_count": len(results.Mining.Rules),
			"rules":      results.Mining.Rules,
			"itemsets":   results.Mining.Itemsets,
			"graph":      results.RuleGraph,
		}
	})
}

func (a *App) handleSegmentation(w http.ResponseWriter, r *http.Request) {
	a.writeResults(w, r, func(results *session.Results) interface{} { return results.Segmentation })
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	a.writeResults(w, r, func(results *session.Results) interface{} { return results.Summary })
}

func (a *App) handleInsights(w http.ResponseWriter, r *http.Request) {
	a.writeResults(w, r, func(results *session.Results) interface{} { return results.Insights })
}

func (a *App) writeResults(w http.ResponseWriter, r *http.Request, pick func(*session.Results) interface{}) {
	s, err := a.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := s.Results()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pick(results))
}

func (a *App) session(r *http.Request) (*session.Session, error) {
	return a.registry.Get(chi.URLParam(r, "sessionID"))
}

func validExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".csv")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeLoadError, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
