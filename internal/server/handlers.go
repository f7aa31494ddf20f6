package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/peers"
	"github.com/bankstacx/bankstacx/internal/ratios"
	"go.uber.org/zap"
)

type ratioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleBanks(w http.ResponseWriter, r *http.Request) {
	d, ok := s.requireDataset(w)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"banks": d.Banks(),
	})
}

func (s *Server) handleRatioCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := make([]ratioInfo, 0, len(ratios.Catalog))
	for _, def := range ratios.Catalog {
		catalog = append(catalog, ratioInfo{Name: def.Name, Description: def.Description})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ratios": catalog,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	d, ok := s.requireDataset(w)
	if !ok {
		return
	}

	bank, ok := s.requireBankParam(w, r)
	if !ok {
		return
	}

	ratio := strings.TrimSpace(r.URL.Query().Get("ratio"))
	if ratio == "" {
		s.respondError(w, http.StatusBadRequest, "missing ratio parameter")
		return
	}

	peerCount, err := s.peerCountParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.builder.Analysis(d, bank, peerCount, ratio)
	if err != nil {
		s.respondDomainError(w, err, "server.handleAnalysis")
		return
	}

	s.writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleStress(w http.ResponseWriter, r *http.Request) {
	d, ok := s.requireDataset(w)
	if !ok {
		return
	}

	bank, ok := s.requireBankParam(w, r)
	if !ok {
		return
	}

	stressReport, err := s.builder.StressReport(d, bank)
	if err != nil {
		s.respondDomainError(w, err, "server.handleStress")
		return
	}

	s.writeJSON(w, http.StatusOK, stressReport)
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	d, ok := s.requireDataset(w)
	if !ok {
		return
	}

	bank, ok := s.requireBankParam(w, r)
	if !ok {
		return
	}

	peerCount, err := s.peerCountParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := s.builder.Financials(d, bank, peerCount)
	if err != nil {
		s.respondDomainError(w, err, "server.handleFinancials")
		return
	}

	s.writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, ok := s.requireDataset(w)
	if !ok {
		return
	}

	bank, ok := s.requireBankParam(w, r)
	if !ok {
		return
	}

	summary, err := s.builder.Summary(d, bank)
	if err != nil {
		s.respondDomainError(w, err, "server.handleSummary")
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.requireDataset(w)
	if !ok {
		return
	}

	bank, ok := s.requireBankParam(w, r)
	if !ok {
		return
	}

	peerCount, err := s.peerCountParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	full, err := s.builder.Full(d, bank, peerCount)
	if err != nil {
		s.respondDomainError(w, err, "server.handleReport")
		return
	}

	s.writeJSON(w, http.StatusOK, full)
}

// handleUpload accepts a spreadsheet of the expected shape, persists it to
// the configured data path, and swaps it in as the active dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxUpload := s.cfg.UploadSizeBytes()
	if maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	}
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", maxUpload))
			return
		}
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing spreadsheet file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	// Validate the upload before anything is persisted; a malformed file
	// must not clobber a working dataset on disk.
	d, err := dataset.LoadReader(bytes.NewReader(buf.Bytes()), header.Filename)
	if err != nil {
		s.respondDomainError(w, err, "server.handleUpload")
		return
	}

	target := s.cfg.DataFile
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != strings.ToLower(filepath.Ext(target)) {
		target = strings.TrimSuffix(target, filepath.Ext(target)) + ext
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to prepare data directory: %v", err))
			return
		}
	}
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to persist upload: %v", err))
		return
	}

	s.swapDataset(d)

	s.logger.Info("dataset replaced by upload",
		zap.String("op", "server.handleUpload"),
		zap.String("file", header.Filename),
		zap.String("path", target),
		zap.Int("banks", d.Len()),
	)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"banks":  d.Banks(),
		"rows":   d.Len(),
		"source": header.Filename,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": s.version,
	})
}

// requireDataset fetches the active dataset or reports that none is loaded.
func (s *Server) requireDataset(w http.ResponseWriter) (*dataset.Dataset, bool) {
	d := s.currentDataset()
	if d == nil {
		s.respondError(w, http.StatusServiceUnavailable,
			"no dataset loaded; upload a line-items spreadsheet via /api/upload")
		return nil, false
	}
	return d, true
}

func (s *Server) requireBankParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	bank := strings.TrimSpace(r.URL.Query().Get("bank"))
	if bank == "" {
		s.respondError(w, http.StatusBadRequest, "missing bank parameter")
		return "", false
	}
	return bank, true
}

func (s *Server) peerCountParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("peers"))
	if raw == "" {
		return s.cfg.PeerCount, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid peers parameter %q: expected an integer", raw)
	}
	return n, nil
}

// respondDomainError maps engine errors onto HTTP statuses.
func (s *Server) respondDomainError(w http.ResponseWriter, err error, op string) {
	var notFound *peers.BankNotFoundError
	var badCount *peers.InvalidPeerCountError
	var badRatio *ratios.UnknownRatioError
	var loadErr *dataset.LoadError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &badCount):
		status = http.StatusBadRequest
	case errors.As(err, &badRatio):
		status = http.StatusBadRequest
	case errors.As(err, &loadErr):
		status = http.StatusBadRequest
	}

	s.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.logger.Error("request failed",
		zap.String("op", "server"),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
