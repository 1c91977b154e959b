package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"unicode/utf8"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "flash" .}}{{template "content" .}}</body></html>{{end}}`),
		},
		"partials/flash.html": &fstest.MapFile{
			Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`),
		},
		"pages/market.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form>login</form>{{end}}`),
		},
	}
}

func TestRenderKnownTemplates(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"market", "<h1>Market</h1>"},
		{"auth/login", "<form>login</form>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			if err := r.Render(rec, req, tt.name, TemplateData{Title: "Market"}); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body = %q, want substring %q", rec.Body.String(), tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := r.Render(rec, req, "nonexistent", TemplateData{}); err == nil {
		t.Error("Render should fail for an unknown template")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("no body should be written on error, got %q", rec.Body.String())
	}
}

func TestTemplateFuncs(t *testing.T) {
	r := &Renderer{}
	funcs := r.templateFuncs()

	truncate := funcs["truncate"].(func(string, int) string)
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate = %q, want %q", got, "hello...")
	}
	if got := truncate("hi", 5); got != "hi" {
		t.Errorf("truncate = %q, want %q", got, "hi")
	}

	// Multi-byte descriptions must stay valid UTF-8 after cutting
	if got := truncate("großmutters Übertöpfe", 4); got != "groß..." {
		t.Errorf("truncate = %q, want %q", got, "groß...")
	}
	if !utf8.ValidString(truncate("ééééé", 3)) {
		t.Error("truncate emitted invalid UTF-8")
	}
}
