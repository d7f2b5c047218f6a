package filter

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validListing() domain.RawListing {
	return domain.RawListing{
		Title:       "Canyon Spectral 29 CF 8 2021 Größe L",
		Price:       2400,
		Description: "Top gepflegtes Fully, regelmäßig gewartet, Service im Frühjahr.",
		Images:      []string{"https://img.example/1.jpg"},
		Link:        "https://www.example.de/s-anzeige/1",
	}
}

func TestKillSwitch_Evaluate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	longAgo := time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*domain.RawListing)
		wantKill bool
		wantRule string
	}{
		{
			name:   "valid listing passes",
			mutate: func(*domain.RawListing) {},
		},
		{
			name:     "wanted post",
			mutate:   func(l *domain.RawListing) { l.Title = "Suche Santa Cruz Nomad Größe L" },
			wantKill: true,
			wantRule: RuleWanted,
		},
		{
			name:     "wtb in upper case",
			mutate:   func(l *domain.RawListing) { l.Title = "WTB: YT Capra 29" },
			wantKill: true,
			wantRule: RuleWanted,
		},
		{
			name:     "price below floor",
			mutate:   func(l *domain.RawListing) { l.Price = 49 },
			wantKill: true,
			wantRule: RulePriceFloor,
		},
		{
			name:   "price at floor passes",
			mutate: func(l *domain.RawListing) { l.Price = 50 },
		},
		{
			name:     "blocklisted category",
			mutate:   func(l *domain.RawListing) { l.Title = "Thule Heckträger für zwei Räder" },
			wantKill: true,
			wantRule: RuleBlocklist,
		},
		{
			name:   "blocklist is word bounded",
			mutate: func(l *domain.RawListing) { l.Title = "Autobahn tauglich Canyon Endurace" },
		},
		{
			name:     "no images",
			mutate:   func(l *domain.RawListing) { l.Images = nil },
			wantKill: true,
			wantRule: RuleNoImages,
		},
		{
			name:     "short description",
			mutate:   func(l *domain.RawListing) { l.Description = "Verkaufe Rad" },
			wantKill: true,
			wantRule: RuleDescription,
		},
		{
			name: "new account premium brand cheap",
			mutate: func(l *domain.RawListing) {
				l.Title = "Santa Cruz Megatower Carbon 2022"
				l.Price = 650
				l.SellerMemberSince = &today
			},
			wantKill: true,
			wantRule: RuleScam,
		},
		{
			name: "old account premium brand cheap",
			mutate: func(l *domain.RawListing) {
				l.Title = "Santa Cruz Megatower Carbon 2022"
				l.Price = 650
				l.SellerMemberSince = &longAgo
			},
		},
		{
			name: "new account premium brand fair price",
			mutate: func(l *domain.RawListing) {
				l.Title = "Santa Cruz Megatower Carbon 2022"
				l.Price = 3900
				l.SellerMemberSince = &today
			},
		},
	}

	ks := NewKillSwitch(lexicon.Default(),
		WithKillSwitchNowFunc(func() time.Time { return now }),
		WithKillSwitchLogger(quietLogger()),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := validListing()
			tt.mutate(&l)

			v := ks.Evaluate(&l)
			assert.Equal(t, tt.wantKill, v.Kill, v.Reason)
			assert.Equal(t, tt.wantRule, v.Rule)
		})
	}
}

func TestFunnel_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		item     domain.SearchItem
		wantKill bool
		wantRule string
	}{
		{
			name: "complete bike passes",
			item: domain.SearchItem{Title: "Specialized Stumpjumper Evo Comp 2021", Price: 2500},
		},
		{
			name:     "laufradsatz dropped regardless of price",
			item:     domain.SearchItem{Title: "DT Swiss XM1700 Laufradsatz 29 Zoll Boost", Price: 1200},
			wantKill: true,
			wantRule: RuleStopWord,
		},
		{
			name:     "laufradsatz dropped even below range",
			item:     domain.SearchItem{Title: "Laufradsatz Mavic Crossmax neu", Price: 10},
			wantKill: true,
			wantRule: RuleStopWord,
		},
		{
			name: "bike set is kept",
			item: domain.SearchItem{Title: "Commencal Meta AM Bike Set mit Extras", Price: 2100},
		},
		{
			name:     "parts kit without bike is dropped",
			item:     domain.SearchItem{Title: "Shimano Deore Komponenten Set komplett", Price: 600},
			wantKill: true,
			wantRule: RulePartsListed,
		},
		{
			name:     "umlaut stop word folded",
			item:     domain.SearchItem{Title: "Fox Float X2 Dampfer 230x65 Factory", Price: 700},
			wantKill: true,
			wantRule: RuleStopWord,
		},
		{
			name:     "frame compound dropped",
			item:     domain.SearchItem{Title: "Specialized Carbonrahmen Stumpjumper 2021 Größe L", Price: 1500},
			wantKill: true,
			wantRule: RuleStopWord,
		},
		{
			name:     "wheelset compound dropped",
			item:     domain.SearchItem{Title: "DT Swiss Carbonlaufradsatz 29 Zoll Boost neuwertig", Price: 1500},
			wantKill: true,
			wantRule: RuleStopWord,
		},
		{
			name:     "plural wheelset dropped",
			item:     domain.SearchItem{Title: "Zwei Laufradsätze Mavic Crossmax 29 Zoll Boost", Price: 1500},
			wantKill: true,
			wantRule: RuleStopWord,
		},
		{
			name: "mountainbike set is kept",
			item: domain.SearchItem{Title: "Canyon Mountainbike Komplett Set mit Helm und Schloss", Price: 1500},
		},
		{
			name: "frame size label is not a frame",
			item: domain.SearchItem{Title: "Canyon Spectral CF 8 Rahmengröße L 2022", Price: 2400},
		},
		{
			name: "short stop word needs a whole word",
			item: domain.SearchItem{Title: "Nukeproof Mega 290 Barracuda Edition", Price: 2200},
		},
		{
			name:     "below range",
			item:     domain.SearchItem{Title: "Cube Aim Pro 29 Hardtail schwarz", Price: 450},
			wantKill: true,
			wantRule: RulePriceRange,
		},
		{
			name:     "above range",
			item:     domain.SearchItem{Title: "Specialized S-Works Epic 2023 neu", Price: 9000},
			wantKill: true,
			wantRule: RulePriceRange,
		},
		{
			name: "range bounds inclusive",
			item: domain.SearchItem{Title: "Specialized S-Works Epic 2023 neu", Price: 8000},
		},
		{
			name:     "short title",
			item:     domain.SearchItem{Title: "YT Capra 29", Price: 2000},
			wantKill: true,
			wantRule: RuleShortTitle,
		},
	}

	f := NewFunnel(lexicon.Default(), WithFunnelLogger(quietLogger()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := f.Check(&tt.item)
			assert.Equal(t, tt.wantKill, v.Kill, v.Reason)
			assert.Equal(t, tt.wantRule, v.Rule)
		})
	}
}

func TestFunnel_ApplyPreservesOrderAndLogsCounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	f := NewFunnel(lexicon.Default(), WithFunnelLogger(log))

	items := []domain.SearchItem{
		{Title: "Santa Cruz Hightower C 2020 Größe L", Price: 2900, Link: "a"},
		{Title: "Rockshox Lyrik Gabel 160mm neuwertig", Price: 600, Link: "b"},
		{Title: "Trek Fuel EX 8 2021 Mountainbike M/L", Price: 2300, Link: "c"},
	}

	out := f.Apply(items)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Link)
	assert.Equal(t, "c", out[1].Link)
	assert.Contains(t, buf.String(), "in=3")
	assert.Contains(t, buf.String(), "out=2")
}
