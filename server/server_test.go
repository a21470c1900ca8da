package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tsawler/debrief/auth"
	"github.com/tsawler/debrief/config"
	"github.com/tsawler/debrief/docx"
)

const (
	testUser     = "coordinator"
	testPassword = "geheim"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Users = map[string]string{testUser: hash}
	for _, m := range mutate {
		m(cfg)
	}

	s, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, time.July, 9, 10, 0, 0, 0, time.UTC) }
	return s
}

// reportDOCX builds a minimal filled-in form.
func reportDOCX(t *testing.T, date, shift, area, category, answer string) []byte {
	t.Helper()
	cell := func(s string) string {
		return `<w:tc><w:p><w:r><w:t xml:space="preserve">` + s + `</w:t></w:r></w:p></w:tc>`
	}
	row := func(cells ...string) string {
		var sb strings.Builder
		sb.WriteString("<w:tr>")
		for _, c := range cells {
			sb.WriteString(cell(c))
		}
		sb.WriteString("</w:tr>")
		return sb.String()
	}
	body := "<w:tbl>" +
		row("Datum dienst", date) +
		row("Soort dienst", shift) +
		row("Inzetgebied", area) +
		"</w:tbl><w:tbl>" +
		row(category) +
		row(answer) +
		"</w:tbl>"

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type upload struct {
	name string
	data []byte
}

func uploadRequest(t *testing.T, path string, files []upload, fields map[string][]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(testUser, testPassword)
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/variants", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), `realm="debrief"`)

	req := httptest.NewRequest(http.MethodGet, "/variants", nil)
	req.SetBasicAuth(testUser, "fout")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)
}

func TestOpenWithoutUsers(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Users = nil
		c.AllowAnonymous = true
	})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/variants", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_RequiresUsers(t *testing.T) {
	_, err := New(config.DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNoUsers)

	cfg := config.DefaultConfig()
	cfg.Users = map[string]string{}
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, ErrNoUsers)
}

func TestVariants(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Variants = []config.VariantOverride{{Name: "weekly", Categories: []string{"GEVONDEN VOORWERPEN"}}}
	})
	req := httptest.NewRequest(http.MethodGet, "/variants", nil)
	req.SetBasicAuth(testUser, testPassword)
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []variantInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Equal(t, []string{"festival", "sail", "weekly"}, names)
	assert.Len(t, got[1].Layouts, 2)
	assert.Equal(t, []string{"GEVONDEN VOORWERPEN"}, got[2].Categories)
}

func TestReport_SingleDocument(t *testing.T) {
	s := newTestServer(t)
	req := uploadRequest(t, "/reports/weekly", []upload{
		{"a.docx", reportDOCX(t, "04-07-2025", "Avonddienst", "", "JEUGDOVERLAST", "Groep bij de speeltuin")},
	}, nil)

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, docx.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Week_27_Debriefingsoverzicht.docx")
	assert.Equal(t, "0", rec.Header().Get(headerWarnings))
	assert.NotEmpty(t, rec.Header().Get(headerRunID))

	r, err := docx.OpenBytes(rec.Body.Bytes())
	require.NoError(t, err)
	paras := r.Paragraphs()
	require.NotEmpty(t, paras)
	assert.Equal(t, "Debriefingoverzicht Week 27", paras[0].Text)
	assert.Equal(t, "Groep bij de speeltuin", paras[len(paras)-1].Text)
}

func TestReport_ExplicitWeekAndWarnings(t *testing.T) {
	s := newTestServer(t)
	req := uploadRequest(t, "/reports/weekly", []upload{
		{"a.docx", reportDOCX(t, "04-07-2025", "Avonddienst", "", "JEUGDOVERLAST", "x")},
		{"scan.pdf", []byte("%PDF-1.4")},
	}, map[string][]string{"week": {"12"}, "year": {"2024"}})

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Week_12_Debriefingsoverzicht.docx")
	assert.Equal(t, "1", rec.Header().Get(headerWarnings))
}

func TestReport_Bundle(t *testing.T) {
	s := newTestServer(t)
	req := uploadRequest(t, "/reports/sail", []upload{
		{"a.docx", reportDOCX(t, "Zaterdag 23 augustus 2025", "Dagdienst", "Centrum", "Sfeerbeeld op straat", "Druk")},
	}, map[string][]string{"week": {"34"}, "year": {"2025"}})

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sail_2025-W34.zip")

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Debriefingsoverzicht_2025.docx", "Debriefingsoverzicht_2025_per_categorie.docx"}, names)
}

func TestReport_HTMLSingleLayout(t *testing.T) {
	s := newTestServer(t)
	req := uploadRequest(t, "/reports/sail", []upload{
		{"a.docx", reportDOCX(t, "Zaterdag 23 augustus 2025", "Dagdienst", "Centrum", "Sfeerbeeld op straat", "Druk")},
	}, map[string][]string{"layout": {"category"}, "format": {"html"}, "week": {"34"}})

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
	body := rec.Body.String()
	assert.Contains(t, body, "Debriefingsoverzicht SAIL 2025 (per categorie)")
	assert.Contains(t, body, "SFEERBEELD OP STRAAT")
	assert.Contains(t, body, "Druk")
}

func TestReport_Errors(t *testing.T) {
	s := newTestServer(t)
	doc := []upload{{"a.docx", reportDOCX(t, "04-07-2025", "Avonddienst", "", "JEUGDOVERLAST", "x")}}

	tests := []struct {
		name   string
		path   string
		files  []upload
		fields map[string][]string
		want   int
	}{
		{"unknown variant", "/reports/pride", doc, nil, http.StatusNotFound},
		{"no files", "/reports/weekly", nil, nil, http.StatusBadRequest},
		{"week not a number", "/reports/weekly", doc, map[string][]string{"week": {"zeven"}}, http.StatusBadRequest},
		{"week out of range", "/reports/weekly", doc, map[string][]string{"week": {"60"}, "year": {"2025"}}, http.StatusBadRequest},
		{"year without week", "/reports/weekly", doc, map[string][]string{"year": {"2025"}}, http.StatusBadRequest},
		{"unknown layout", "/reports/weekly", doc, map[string][]string{"layout": {"category"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, tt.path, tt.files, tt.fields))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestReport_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.MaxUploadMB = 1 })
	big := bytes.Repeat([]byte("x"), 2<<20)
	req := uploadRequest(t, "/reports/weekly", []upload{{"groot.docx", big}}, nil)

	rec := serve(s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Users = map[string]string{"a": "plain-text"}
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Workers = 0
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
}
