// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tamperscan/internal/analyzer"
	"tamperscan/internal/config"
	"tamperscan/internal/formatters/shared"
	"tamperscan/internal/pdfmeta"
	"tamperscan/internal/version"
)

// Server serves the upload form and the analysis API.
type Server struct {
	port   string
	cfg    *config.Config
	server *http.Server
}

// AnalyzeResponse is the JSON payload returned by /analyze. A failed
// extraction is a rejection (Success=false), distinct from a clean or
// suspicious verdict.
type AnalyzeResponse struct {
	Success bool           `json:"success"`
	Report  *shared.Report `json:"report,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// NewServer creates a new web server instance.
func NewServer(port string, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.LoadConfigOrDefault("")
	}
	return &Server{port: port, cfg: cfg}
}

// Start starts the web server, falling back through ports 8080-8089 when
// the requested port is busy. It blocks until the server stops.
func (s *Server) Start() error {
	var lastError error
	for i := 0; i < 10; i++ {
		currentPort := s.port
		if i > 0 {
			currentPort = fmt.Sprintf("%d", 8080+i)
		}

		listener, err := net.Listen("tcp", ":"+currentPort)
		if err != nil {
			lastError = err
			if i == 0 {
				fmt.Printf("Port %s is not available, trying alternative ports...\n", currentPort)
			}
			continue
		}
		listener.Close()

		s.server = s.createSecureServer(currentPort)

		fmt.Printf("tamperscan web UI started on port %s\n", currentPort)
		fmt.Printf("Local: http://localhost:%s\n", currentPort)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lastError = err
			continue
		}
		return nil
	}

	return fmt.Errorf("could not find an available port in range 8080-8089: %v", lastError)
}

// Stop stops the web server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Routes builds the request mux. Exposed for handler tests.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	return mux
}

// createSecureServer creates an HTTP server with security timeouts
func (s *Server) createSecureServer(port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serveHome serves the upload page.
func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.loadTemplate()))
}

// loadTemplate loads the HTML template from file with fallback to the
// embedded template.
func (s *Server) loadTemplate() string {
	templatePath := filepath.Clean(filepath.Join("web", "template.html"))
	if content, err := os.ReadFile(templatePath); err == nil {
		return string(content)
	}
	return embeddedTemplate
}

// handleHealth provides a health check endpoint with version information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versionInfo := version.Full()
	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tamperscan-web",
		"version":   versionInfo["version"],
		"build_info": map[string]any{
			"version":    versionInfo["version"],
			"commit":     versionInfo["commit"],
			"build_date": versionInfo["buildDate"],
			"go_version": versionInfo["goVersion"],
			"platform":   versionInfo["platform"],
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthData)
}

// handleAnalyze accepts a PDF upload, runs the analysis, and returns the
// structured report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxUpload := s.cfg.Web.MaxUploadBytes
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		s.sendError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.sendError(w, http.StatusBadRequest, "Invalid file type. Please upload a PDF file.")
		return
	}

	tempPath, err := s.saveUpload(file, maxUpload)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store upload: %v", err))
		return
	}
	defer os.Remove(tempPath)

	doc, err := pdfmeta.Extract(tempPath)
	if err != nil {
		var extractionErr *pdfmeta.ExtractionError
		if errors.As(err, &extractionErr) {
			s.sendError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("Could not read this file as a PDF: %s", extractionErr.Reason))
			return
		}
		s.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis error: %v", err))
		return
	}

	result := analyzer.Analyze(header.Filename, doc.Fields, doc.Signals, s.cfg.AnalyzerConfig())
	report := shared.FromResult(result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalyzeResponse{Success: true, Report: &report})
}

// saveUpload copies the uploaded file to a temp path with a size cap.
func (s *Server) saveUpload(file multipart.File, maxBytes int64) (string, error) {
	tempFile, err := os.CreateTemp("", "tamperscan_upload_*.pdf")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, io.LimitReader(file, maxBytes)); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}
	return tempFile.Name(), nil
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(AnalyzeResponse{Success: false, Error: message})
}
