// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tamperscan/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return NewServer("8080", cfg)
}

func multipartUpload(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) AnalyzeResponse {
	t.Helper()
	var response AnalyzeResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return response
}

func TestHealthEndpoint(t *testing.T) {
	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var health map[string]any
	if err := json.NewDecoder(recorder.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health payload: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status field = %v", health["status"])
	}
	if health["service"] != "tamperscan-web" {
		t.Errorf("service field = %v", health["service"])
	}
}

func TestHomeServesUploadPage(t *testing.T) {
	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "text/html" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if !strings.Contains(recorder.Body.String(), "pdf_file") {
		t.Error("upload form field missing from page")
	}
}

func TestAnalyzeRejectsGet(t *testing.T) {
	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/analyze", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", recorder.Code)
	}
}

func TestAnalyzeRejectsMissingFile(t *testing.T) {
	body, contentType := multipartUpload(t, "wrong_field", "doc.pdf", "%PDF-1.4")
	request := httptest.NewRequest(http.MethodPost, "/analyze", body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	response := decodeResponse(t, recorder)
	if response.Success {
		t.Error("success = true for missing file")
	}
	if response.Error != "No file uploaded" {
		t.Errorf("error = %q", response.Error)
	}
}

func TestAnalyzeRejectsWrongExtension(t *testing.T) {
	body, contentType := multipartUpload(t, "pdf_file", "notes.txt", "plain text")
	request := httptest.NewRequest(http.MethodPost, "/analyze", body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if response := decodeResponse(t, recorder); response.Error != "Invalid file type. Please upload a PDF file." {
		t.Errorf("error = %q", response.Error)
	}
}

func TestAnalyzeRejectsNonPDFContent(t *testing.T) {
	body, contentType := multipartUpload(t, "pdf_file", "fake.pdf", "this is not a pdf")
	request := httptest.NewRequest(http.MethodPost, "/analyze", body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", recorder.Code)
	}
	response := decodeResponse(t, recorder)
	if response.Success {
		t.Error("success = true for unreadable file")
	}
	if !strings.Contains(response.Error, "Could not read this file as a PDF") {
		t.Errorf("error = %q", response.Error)
	}
}

func TestAnalyzeReportsOnUpload(t *testing.T) {
	pdfBody := `%PDF-1.7
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
4 0 obj
<< /Author (Jane Roe) /Producer (Adobe PDF Library 15.0)
   /CreationDate (D:20230110090000) /ModDate (D:20230110091500) >>
endobj
trailer
<< /Root 1 0 R /Info 4 0 R >>
%%EOF`

	body, contentType := multipartUpload(t, "pdf_file", "report.pdf", pdfBody)
	request := httptest.NewRequest(http.MethodPost, "/analyze", body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	response := decodeResponse(t, recorder)
	if !response.Success {
		t.Fatalf("success = false: %s", response.Error)
	}
	if response.Report == nil {
		t.Fatal("report missing from response")
	}
	if response.Report.Filename != "report.pdf" {
		t.Errorf("report filename = %q", response.Report.Filename)
	}
	if response.Report.Metadata["Author"] != "Jane Roe" {
		t.Errorf("report author = %q", response.Report.Metadata["Author"])
	}
}
