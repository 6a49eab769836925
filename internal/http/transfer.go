package http

import (
	"errors"
	"fmt"
	"net/http"

	"budget/internal/budget"
	"budget/internal/csvio"
	"budget/internal/log"
)

// handleExport downloads the session's budget as budget_data.csv.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	w.Header().Set("Content-Type", csvio.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvio.FileName+`"`)
	if err := sess.Budget.WriteCSV(w); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Export failed", log.FieldError, err, log.FieldOperation, log.OpExport)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Budget exported", log.FieldOperation, log.OpExport, "version", sess.Budget.Version())
}

type loadResult struct {
	res budget.ImportResult
	err error
}

// handleImport replaces the session's budget with an uploaded CSV file.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	sess := sessionFrom(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Fail(http.StatusRequestEntityTooLarge, userMessage(csvio.ErrFileTooLarge)).Send(w)
			return
		}
		Fail(http.StatusBadRequest, "Choose a file to load").Send(w)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		Fail(http.StatusBadRequest, "Choose a file to load").Send(w)
		return
	}
	defer file.Close()

	if err := csvio.CheckFileName(header.Filename); err != nil {
		Fail(http.StatusUnprocessableEntity, userMessage(err)).Send(w)
		return
	}

	done := make(chan loadResult, 1)
	sess.Budget.LoadAsync(file, s.maxUpload, func(res budget.ImportResult, err error) {
		if err == nil {
			// every old row is gone, so no editor can stay open; this runs
			// even when the client has already gone away
			sess.Lock()
			sess.CloseEditors()
			sess.Unlock()
		}
		done <- loadResult{res: res, err: err}
	})

	var loaded loadResult
	select {
	case loaded = <-done:
	case <-ctx.Done():
		logger.WarnContext(ctx, "Import abandoned by client", log.FieldError, ctx.Err())
		return
	}

	if loaded.err != nil {
		if errors.Is(loaded.err, csvio.ErrFileTooLarge) {
			Fail(http.StatusRequestEntityTooLarge, userMessage(loaded.err)).Send(w)
			return
		}
		logger.ErrorContext(ctx, "Import failed", log.FieldError, loaded.err, log.FieldOperation, log.OpImport)
		Fail(http.StatusInternalServerError, "Could not read the file").Send(w)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	msg := fmt.Sprintf("Loaded %s and %s",
		plural(loaded.res.Incomes, "income", "incomes"),
		plural(loaded.res.Expenses, "expense", "expenses"))
	if loaded.res.Skipped > 0 {
		msg += ", skipped " + plural(loaded.res.Skipped, "invalid entry", "invalid entries")
	}
	logger.InfoContext(ctx, "Budget imported", log.FieldOperation, log.OpImport,
		"file", header.Filename, "incomes", loaded.res.Incomes, "expenses", loaded.res.Expenses, "skipped", loaded.res.Skipped)
	s.respond(w, r, sess, nil, msg)
}
