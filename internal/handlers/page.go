package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"recordream/internal/contextutil"
	"recordream/internal/detail"
	"recordream/internal/record"
	"recordream/internal/service"
)

// ServiceSource adapts a RecordService to the detail store's data source.
type ServiceSource struct {
	Records RecordService
}

// FetchDetail implements detail.Source.
func (s ServiceSource) FetchDetail(ctx context.Context, id string) (record.DetailRecord, error) {
	return s.Records.Get(ctx, id)
}

// DeleteDetail implements detail.Source.
func (s ServiceSource) DeleteDetail(ctx context.Context, id string) error {
	return s.Records.Delete(ctx, id)
}

// PageHandler renders a record as an HTML detail sheet.
type PageHandler struct {
	source   detail.Source
	parser   goldmark.Markdown
	template *template.Template
}

type pagePane struct {
	Label    string
	Body     template.HTML
	HasVoice bool
	Playback string
}

// pageData holds template data for rendered detail pages.
type pageData struct {
	ID         string
	Title      string
	Date       string
	Background string
	Icon       string
	Tags       []string
	Panes      []pagePane
}

// NewPageHandler creates a new handler for detail pages.
func NewPageHandler(records RecordService) *PageHandler {
	tmpl := template.Must(template.New("record").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 720px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 1.5rem;
    }
    h1 {
      margin: 0.5rem 0;
      color: #fff;
    }
    .date {
      color: #94a3b8;
      font-size: 0.95rem;
    }
    .tags span {
      display: inline-block;
      margin-right: 0.5rem;
      padding: 2px 10px;
      border-radius: 999px;
      background: rgba(99, 102, 241, 0.18);
      color: #c7d2fe;
    }
    section {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 1.5rem;
      margin-bottom: 1rem;
    }
    section h2 {
      margin-top: 0;
      font-size: 1rem;
      color: #93c5fd;
    }
    .voice {
      color: #94a3b8;
      font-size: 0.85rem;
    }
  </style>
</head>
<body data-background="{{.Background}}">
  <header>
    <div class="icon" data-icon="{{.Icon}}"></div>
    <p class="date">{{.Date}}</p>
    <h1>{{.Title}}</h1>
    <div class="tags">{{range .Tags}}<span>{{.}}</span>{{end}}</div>
  </header>
  {{range .Panes}}
  <section>
    <h2>{{.Label}}</h2>
    {{if .HasVoice}}<p class="voice">voice: {{.Playback}}</p>{{end}}
    <article>{{.Body}}</article>
  </section>
  {{end}}
</body>
</html>`))

	return &PageHandler{
		source: ServiceSource{Records: records},
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// ServeHTTP renders GET /record/{id}/page.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		http.Error(w, "record id is required", http.StatusBadRequest)
		return
	}

	store := detail.NewStore(h.source, nil, nil)
	defer func() {
		_ = store.Close()
	}()

	if err := store.Load(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to load record page", "id", id, "error", err)
		http.Error(w, "failed to load record", http.StatusBadGateway)
		return
	}

	data, err := h.pageData(store.Snapshot())
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "id", id, "error", err)
		http.Error(w, "failed to render record", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute record template", "id", id, "error", err)
		http.Error(w, "failed to render record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) pageData(st detail.State) (pageData, error) {
	data := pageData{
		ID:         st.RecordID,
		Title:      st.Title,
		Date:       st.Date,
		Background: string(st.Background),
		Icon:       string(st.Icon),
	}
	for _, tag := range st.Tags {
		data.Tags = append(data.Tags, tag.Label)
	}
	for _, item := range st.Content {
		body, err := h.renderMarkdown([]byte(item.Text))
		if err != nil {
			return pageData{}, err
		}
		data.Panes = append(data.Panes, pagePane{
			Label:    item.Category.Label(),
			Body:     template.HTML(body),
			HasVoice: item.HasVoice,
			Playback: strings.ToLower(item.Playback.String()),
		})
	}
	return data, nil
}

func (h *PageHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
