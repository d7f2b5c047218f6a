// Package main implements a mock classifieds marketplace for local
// development. It renders search and detail pages from a YAML fixture in
// the markup the marketplace adapter parses, so a full hunt can run without
// touching the real site.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
)

const (
	pageSize     = 25
	categoryPath = "/s-fahrraeder"
	categoryCode = "k0c217"
)

type listing struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Price       int               `yaml:"price"`
	Negotiable  bool              `yaml:"negotiable"`
	Location    string            `yaml:"location"`
	Description string            `yaml:"description"`
	SellerName  string            `yaml:"seller_name"`
	Commercial  bool              `yaml:"commercial"`
	MemberSince string            `yaml:"member_since"`
	Created     string            `yaml:"created"`
	Views       int               `yaml:"views"`
	Images      int               `yaml:"images"`
	Facts       map[string]string `yaml:"facts"`
}

// PriceLabel renders the price the way the site does, e.g. "1.250 € VB".
func (l *listing) PriceLabel() string {
	s := strconv.Itoa(l.Price)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" €")
	if l.Negotiable {
		b.WriteString(" VB")
	}
	return b.String()
}

func (l *listing) SellerLabel() string {
	if l.Commercial {
		return "Gewerblicher Anbieter"
	}
	return "Privater Nutzer"
}

func (l *listing) Snippet() string {
	if len(l.Description) <= 80 {
		return l.Description
	}
	return l.Description[:80] + "..."
}

func (l *listing) ImageURLs() []string {
	urls := make([]string, 0, l.Images)
	for i := range l.Images {
		urls = append(urls, fmt.Sprintf("/img/%s/%d.jpg", l.ID, i))
	}
	return urls
}

type fixture struct {
	Listings []listing `yaml:"listings"`
}

// query is a decoded search path.
type query struct {
	words    []string
	minPrice int
	maxPrice int
	page     int
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/listings.yaml", "path to listings fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fx, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "listings", len(fx.Listings))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, fx)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, fx *fixture) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+categoryPath+"/", searchHandler(logger, fx))
	mux.HandleFunc("GET /s-anzeige/{id}", detailHandler(logger, fx))
	mux.HandleFunc("GET /img/{id}/{n}", imageHandler())
	return mux
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fx, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// parseSearchPath decodes /s-fahrraeder[/preis:MIN:MAX][/seite:N][/slug]/k0c217.
func parseSearchPath(path string) (query, bool) {
	q := query{page: 1}
	rest := strings.Trim(strings.TrimPrefix(path, categoryPath), "/")
	segments := strings.Split(rest, "/")
	if len(segments) == 0 || segments[len(segments)-1] != categoryCode {
		return q, false
	}

	for _, seg := range segments[:len(segments)-1] {
		switch {
		case strings.HasPrefix(seg, "preis:"):
			bounds := strings.SplitN(strings.TrimPrefix(seg, "preis:"), ":", 2)
			q.minPrice, _ = strconv.Atoi(bounds[0])
			if len(bounds) == 2 {
				q.maxPrice, _ = strconv.Atoi(bounds[1])
			}
		case strings.HasPrefix(seg, "seite:"):
			n, err := strconv.Atoi(strings.TrimPrefix(seg, "seite:"))
			if err != nil || n < 1 {
				return q, false
			}
			q.page = n
		case seg != "":
			q.words = strings.Split(seg, "-")
		}
	}
	return q, true
}

func (q *query) matches(l *listing) bool {
	if q.minPrice > 0 && l.Price < q.minPrice {
		return false
	}
	if q.maxPrice > 0 && l.Price > q.maxPrice {
		return false
	}
	title := lexicon.Fold(l.Title)
	for _, w := range q.words {
		if !strings.Contains(title, w) {
			return false
		}
	}
	return true
}

func searchHandler(logger *slog.Logger, fx *fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := parseSearchPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		var matched []*listing
		for i := range fx.Listings {
			if q.matches(&fx.Listings[i]) {
				matched = append(matched, &fx.Listings[i])
			}
		}

		start := (q.page - 1) * pageSize
		page := []*listing{}
		if start < len(matched) {
			page = matched[start:min(start+pageSize, len(matched))]
		}

		render(w, logger, searchTmpl, page)
		logger.Info("search", "words", q.words, "page", q.page, "matched", len(matched), "returned", len(page))
	}
}

func detailHandler(logger *slog.Logger, fx *fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		for i := range fx.Listings {
			if fx.Listings[i].ID == id {
				render(w, logger, detailTmpl, &fx.Listings[i])
				return
			}
		}
		http.NotFound(w, r)
	}
}

// imageHandler serves a small solid JPEG whose colour is derived from the
// listing id, so distinct listings yield distinct image bytes.
func imageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sum uint8
		for _, b := range []byte(r.PathValue("id") + r.PathValue("n")) {
			sum += b
		}
		img := image.NewRGBA(image.Rect(0, 0, 64, 48))
		c := color.RGBA{R: sum, G: 255 - sum, B: sum / 2, A: 255}
		for x := range 64 {
			for y := range 48 {
				img.Set(x, y, c)
			}
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write(buf.Bytes())
	}
}

func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("rendering page", "template", tmpl.Name(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	w.Write(buf.Bytes())
}

var searchTmpl = template.Must(template.New("search").Parse(`<!DOCTYPE html>
<html lang="de"><body>
<ul id="srchrslt-adtable">
{{- range .}}
<li class="ad-listitem"><article class="aditem" data-href="/s-anzeige/{{.ID}}">
  <div class="aditem-main--top--left">{{.Location}}</div>
  <h2 class="text-module-begin"><a class="ellipsis" href="/s-anzeige/{{.ID}}">{{.Title}}</a></h2>
  <p class="aditem-main--middle--description">{{.Snippet}}</p>
  <p class="aditem-main--middle--price-shipping--price">{{.PriceLabel}}</p>
</article></li>
{{- end}}
</ul>
</body></html>`))

var detailTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="de"><body>
<h1 id="viewad-title" class="boxedarticle--title">{{.Title}}</h1>
<h2 id="viewad-price" class="boxedarticle--price">{{.PriceLabel}}</h2>
<span id="viewad-locality">{{.Location}}</span>
<div id="viewad-extra-info"><span>{{.Created}}</span></div>
<span id="viewad-cntr-num">{{.Views}}</span>
<div id="viewad-image">{{range .ImageURLs}}<img src="{{.}}">{{end}}</div>
<ul class="addetailslist">
{{- range $k, $v := .Facts}}
<li class="addetailslist--detail">{{$k}}<span class="addetailslist--detail--value">{{$v}}</span></li>
{{- end}}
</ul>
<p id="viewad-description-text">{{.Description}}</p>
<div id="viewad-contact">
  <span class="userprofile-vip"><a href="#">{{.SellerName}}</a></span>
  <span>{{.SellerLabel}}</span>
  <span>Aktiv seit {{.MemberSince}}</span>
</div>
</body></html>`))
