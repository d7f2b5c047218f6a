package marketplace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const searchPage = `<html><body><ul id="srchrslt-adtable">
<li class="ad-listitem"><article class="aditem" data-href="/s-anzeige/canyon-spectral/111">
  <div class="aditem-main--top--left"> 10115 Berlin Mitte </div>
  <div class="aditem-main--middle--title"><h2><a href="/s-anzeige/canyon-spectral/111">Canyon Spectral 29 CF 8 Größe L</a></h2></div>
  <p class="aditem-main--middle--description">Top Zustand, wenig gefahren</p>
  <p class="aditem-main--middle--price-shipping--price"> 2.400 € VB </p>
</article></li>
<li class="ad-listitem"><article class="aditem" data-href="/s-anzeige/ohne-preis/222">
  <h2><a href="/s-anzeige/ohne-preis/222">Specialized Stumpjumper</a></h2>
  <p class="aditem-main--middle--price-shipping--price">VB</p>
</article></li>
<li class="ad-listitem"><article class="aditem">
  <h2><a href="https://www.kleinanzeigen.de/s-anzeige/yt-capra/333">YT Capra Core 3 MX</a></h2>
  <p class="aditem-main--middle--price-shipping--price">3.100 €</p>
</article></li>
</ul></body></html>`

const detailPage = `<html><body>
<h1 class="boxedarticle--title" id="viewad-title"> Reserviert • Canyon Spectral 29 CF 8 </h1>
<h2 class="boxedarticle--price" id="viewad-price">2.400 € VB</h2>
<span id="viewad-locality">10115 Berlin - Mitte</span>
<div id="viewad-extra-info"><span id="viewad-cntr-num">187</span></div>
<dl><dt class="attributelist--key">Erstellungsdatum:</dt><dd class="attributelist--value">03.06.2025</dd></dl>
<div id="viewad-image"><img src="https://img.example.de/api/v1/images/aa?rule=$_2.AUTO"></div>
<div class="galleryimage-element"><img data-src="https://img.example.de/api/v1/images/bb?rule=$_59.AUTO"></div>
<div data-imgsrc="https://img.example.de/api/v1/images/aa?rule=$_59.AUTO"></div>
<ul class="addetailslist">
  <li class="addetailslist--detail">Art<span class="addetailslist--detail--value">Herren</span></li>
  <li class="addetailslist--detail">Typ<span class="addetailslist--detail--value">Mountainbikes</span></li>
</ul>
<p id="viewad-description-text">Verkaufe mein Spectral, Rahmengröße L,
  Baujahr 2021, frisch gewartet.</p>
<div id="viewad-contact">
  <span class="userprofile-vip"><a href="/s-bestandsliste.html?userId=9">Max</a></span>
  <span class="userprofile-vip-details">Privater Nutzer · Aktiv seit 14.02.2016</span>
</div>
</body></html>`

func TestParseSearchResults(t *testing.T) {
	t.Parallel()

	items, err := ParseSearchResults([]byte(searchPage), "https://www.kleinanzeigen.de")
	require.NoError(t, err)
	require.Len(t, items, 2, "card without a numeric price is skipped")

	assert.Equal(t, domain.SearchItem{
		Title:    "Canyon Spectral 29 CF 8 Größe L",
		Price:    2400,
		Link:     "https://www.kleinanzeigen.de/s-anzeige/canyon-spectral/111",
		Location: "10115 Berlin Mitte",
		Snippet:  "Top Zustand, wenig gefahren",
	}, items[0])
	assert.Equal(t, "https://www.kleinanzeigen.de/s-anzeige/yt-capra/333", items[1].Link)
	assert.Equal(t, 3100, items[1].Price)
}

func TestParseDetailPage(t *testing.T) {
	t.Parallel()

	link := "https://www.kleinanzeigen.de/s-anzeige/canyon-spectral/111"
	l, err := ParseDetailPage([]byte(detailPage), link)
	require.NoError(t, err)

	assert.Equal(t, "Canyon Spectral 29 CF 8", l.Title)
	assert.Equal(t, 2400, l.Price)
	assert.True(t, l.Negotiable)
	assert.Equal(t, 187, l.Views)
	assert.Equal(t, "10115 Berlin - Mitte", l.Location)
	assert.Equal(t, link, l.Link)
	assert.Contains(t, l.Description, "Baujahr 2021")
	assert.Equal(t, "Max", l.SellerName)
	assert.Equal(t, domain.SellerPrivate, l.SellerType)

	require.NotNil(t, l.PublishDate)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), *l.PublishDate)
	require.NotNil(t, l.SellerMemberSince)
	assert.Equal(t, time.Date(2016, 2, 14, 0, 0, 0, 0, time.UTC), *l.SellerMemberSince)

	assert.Equal(t, []string{
		"https://img.example.de/api/v1/images/aa?rule=$_59.AUTO",
		"https://img.example.de/api/v1/images/bb?rule=$_59.AUTO",
	}, l.Images)
	assert.Equal(t, map[string]string{"Art": "Herren", "Typ": "Mountainbikes"}, l.Facts)
}

func TestParseDetailPage_NoTitle(t *testing.T) {
	t.Parallel()

	_, err := ParseDetailPage([]byte("<html><body><p>Die Anzeige ist nicht mehr verfügbar.</p></body></html>"), "https://x.test/1")
	require.ErrorIs(t, err, ErrNoTitle)
}

func TestSource_SearchURL(t *testing.T) {
	t.Parallel()

	s := NewSource(nil)

	tests := []struct {
		name   string
		target domain.Target
		page   int
		want   string
	}{
		{
			name:   "brand and model with price band",
			target: domain.Target{Brand: "Santa Cruz", Model: "Bronson", MinPrice: 500, MaxPrice: 4000},
			page:   1,
			want:   "https://www.kleinanzeigen.de/s-fahrraeder/preis:500:4000/santa-cruz-bronson/k0c217",
		},
		{
			name:   "second page",
			target: domain.Target{Brand: "YT", Model: "Capra"},
			page:   2,
			want:   "https://www.kleinanzeigen.de/s-fahrraeder/seite:2/yt-capra/k0c217",
		},
		{
			name:   "open upper bound",
			target: domain.Target{Brand: "Cube", MinPrice: 800},
			page:   1,
			want:   "https://www.kleinanzeigen.de/s-fahrraeder/preis:800:/cube/k0c217",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.SearchURL(&tt.target, tt.page))
		})
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rose-ground-control", Slug("Rose  Ground-Control"))
	assert.Equal(t, "cube-stereo-1400", Slug("Cube Stéreo 140.0"))
}

type stubFetcher struct {
	pages map[string]string
	err   error
	urls  []string
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	s.urls = append(s.urls, rawURL)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.pages[rawURL]), nil
}

func TestSource_SearchAndDetail(t *testing.T) {
	t.Parallel()

	base := "http://market.test"
	target := domain.Target{Brand: "Canyon", Model: "Spectral"}
	detailURL := base + "/s-anzeige/canyon-spectral/111"

	f := &stubFetcher{pages: map[string]string{
		base + "/s-fahrraeder/canyon-spectral/k0c217": searchPage,
		detailURL: detailPage,
	}}
	s := NewSource(f, WithBaseURL(base+"/"), WithLogger(quietLogger()))

	items, err := s.Search(context.Background(), &target, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, detailURL, items[0].Link)

	l, err := s.Detail(context.Background(), detailURL)
	require.NoError(t, err)
	assert.Equal(t, 2400, l.Price)
}

func TestSource_FetchErrorWrapped(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("frozen")
	s := NewSource(&stubFetcher{err: sentinel}, WithLogger(quietLogger()))

	_, err := s.Search(context.Background(), &domain.Target{Brand: "Canyon"}, 1)
	require.ErrorIs(t, err, sentinel)

	_, err = s.Detail(context.Background(), "https://www.kleinanzeigen.de/s-anzeige/x/1")
	require.ErrorIs(t, err, sentinel)
}
