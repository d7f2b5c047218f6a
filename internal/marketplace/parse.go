package marketplace

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/donaldgifford/bike-hunter/pkg/extract"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// ErrNoTitle is returned when a detail page has no recognisable title,
// which usually means the listing was removed or the layout changed.
var ErrNoTitle = errors.New("listing page has no title")

var (
	germanDateRe    = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)
	memberSinceRe   = regexp.MustCompile(`(?i)aktiv seit\s*(\d{2}\.\d{2}\.\d{4})`)
	statusPrefixRe  = regexp.MustCompile(`(?i)^(reserviert|gelöscht|verkauft)\s*[•|-]?\s*`)
	imageRuleRe     = regexp.MustCompile(`rule=\$_\d+\.[A-Z]+$`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// ParseSearchResults extracts the item cards from a search result page.
// Cards without a link or a readable price are skipped.
func ParseSearchResults(body []byte, baseURL string) ([]domain.SearchItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var items []domain.SearchItem
	doc.Find("article.aditem").Each(func(_ int, card *goquery.Selection) {
		link := card.Find(".aditem-main--middle--title a, h2 a").First()
		href, _ := link.Attr("href")
		if href == "" {
			href, _ = card.Attr("data-href")
		}
		if href == "" {
			return
		}

		price, _, ok := extract.ParsePrice(text(card.Find(".aditem-main--middle--price-shipping--price")))
		if !ok {
			return
		}

		items = append(items, domain.SearchItem{
			Title:    clean(link.Text()),
			Price:    price,
			Link:     absolute(baseURL, href),
			Location: text(card.Find(".aditem-main--top--left")),
			Snippet:  text(card.Find(".aditem-main--middle--description")),
		})
	})
	return items, nil
}

// ParseDetailPage extracts a listing from its detail page. link is
// recorded as the listing's identity and used to resolve image URLs.
func ParseDetailPage(body []byte, link string) (*domain.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	title := firstText(doc.Selection, ".boxedarticle--title", "#viewad-title", "h1")
	title = statusPrefixRe.ReplaceAllString(title, "")
	if title == "" {
		return nil, ErrNoTitle
	}

	l := &domain.RawListing{
		Title:       title,
		Description: firstText(doc.Selection, "#viewad-description-text", "#viewad-description"),
		Location:    firstText(doc.Selection, "#viewad-locality", ".boxedarticle--location"),
		Link:        link,
		Images:      images(doc, link),
		Facts:       facts(doc),
	}

	priceLabel := firstText(doc.Selection, ".boxedarticle--price", "#viewad-price")
	// A bare "VB" leaves the price at zero, which the kill switch rejects.
	l.Price, l.Negotiable, _ = extract.ParsePrice(priceLabel)

	if v, err := strconv.Atoi(strings.TrimSpace(doc.Find("#viewad-cntr-num").Text())); err == nil {
		l.Views = v
	}

	l.PublishDate = publishDate(doc)
	parseSeller(doc, l)

	return l, nil
}

func publishDate(doc *goquery.Document) *time.Time {
	var found *time.Time
	doc.Find(".attributelist--key").EachWithBreak(func(_ int, key *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(key.Text()), "erstellungsdatum") {
			return true
		}
		found = parseGermanDate(key.Next().Text())
		return false
	})
	if found != nil {
		return found
	}
	return parseGermanDate(doc.Find("#viewad-extra-info").Text())
}

func parseSeller(doc *goquery.Document, l *domain.RawListing) {
	contact := doc.Find("#viewad-contact")
	l.SellerName = firstText(contact, ".userprofile-vip a", ".userprofile-vip")
	if l.SellerName == "" {
		l.SellerName = text(doc.Find("#viewad-contact-name"))
	}

	profile := strings.ToLower(contact.Text())
	switch {
	case strings.Contains(profile, "gewerblicher anbieter"):
		l.SellerType = domain.SellerCommercial
	case strings.Contains(profile, "privater nutzer"):
		l.SellerType = domain.SellerPrivate
	}

	if m := memberSinceRe.FindStringSubmatch(contact.Text()); m != nil {
		l.SellerMemberSince = parseGermanDate(m[1])
	}
}

func images(doc *goquery.Document, base string) []string {
	seen := make(map[string]bool)
	var out []string
	push := func(src string) {
		src = absolute(base, src)
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		// Ask for the large rendition of CDN images.
		src = imageRuleRe.ReplaceAllString(src, "rule=$$_59.AUTO")
		if seen[src] {
			return
		}
		seen[src] = true
		out = append(out, src)
	}

	doc.Find("[data-imgsrc]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("data-imgsrc")
		push(v)
	})
	doc.Find("#viewad-image img, .galleryimage-element img").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-src"); ok {
			push(v)
		}
		if v, ok := s.Attr("src"); ok {
			push(v)
		}
	})
	return out
}

func facts(doc *goquery.Document) map[string]string {
	out := make(map[string]string)
	doc.Find(".addetailslist--detail").Each(func(_ int, s *goquery.Selection) {
		value := text(s.Find(".addetailslist--detail--value"))
		key := clean(strings.Replace(s.Text(), s.Find(".addetailslist--detail--value").Text(), "", 1))
		key = strings.TrimSuffix(key, ":")
		if key == "" || value == "" {
			return
		}
		out[key] = value
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseGermanDate(s string) *time.Time {
	m := germanDateRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	t, err := time.Parse("02.01.2006", m[0])
	if err != nil {
		return nil
	}
	return &t
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if v := text(sel.Find(s).First()); v != "" {
			return v
		}
	}
	return ""
}

func text(sel *goquery.Selection) string {
	return clean(sel.Text())
}

func clean(s string) string {
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(s, " "))
}
