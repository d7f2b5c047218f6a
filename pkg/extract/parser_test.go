package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/extract"
	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

func newTestParser() *extract.Parser {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return extract.NewParser(lexicon.Default(), extract.WithParserNowFunc(func() time.Time { return now }))
}

func intPtr(v int) *int { return &v }

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	p := newTestParser()

	tests := []struct {
		name    string
		listing domain.RawListing
		want    domain.ParsedRecord
	}{
		{
			name: "full title",
			listing: domain.RawListing{
				Title:       "Canyon Spectral 29 CF 8 2021 Größe L",
				Description: "Carbon Rahmen, regelmäßig gewartet.",
				Price:       2400,
			},
			want: domain.ParsedRecord{
				Title:         "Canyon Spectral 29 CF 8 2021 Größe L",
				Brand:         "Canyon",
				Model:         "Spectral 29 CF 8 2021 Größe L",
				Year:          intPtr(2021),
				FrameMaterial: "carbon",
				FrameSize:     "L",
				WheelSize:     "29",
				Price:         intPtr(2400),
			},
		},
		{
			name: "multi word brand alias and mullet",
			listing: domain.RawListing{
				Title: "YT Industries Capra MX Core 3 Enduro",
				Price: 3100,
			},
			want: domain.ParsedRecord{
				Title:     "YT Industries Capra MX Core 3 Enduro",
				Brand:     "YT",
				Model:     "Capra MX Core 3 Enduro",
				WheelSize: "mullet",
				Category:  domain.CategoryEnduro,
				Price:     intPtr(3100),
			},
		},
		{
			name: "facts and description fill gaps",
			listing: domain.RawListing{
				Title:       "Verkaufe mein Fahrrad",
				Description: "Tolles Rad von Cube, Baujahr 2019, 56 cm, Alu. Gekauft 2020 für 1999 Euro.",
				Facts:       map[string]string{"Rahmengröße": "56 cm", "Typ": "Rennrad"},
			},
			want: domain.ParsedRecord{
				Title:         "Verkaufe mein Fahrrad",
				Brand:         "Cube",
				Year:          intPtr(2019),
				FrameMaterial: "aluminum",
				FrameSize:     "56cm",
				Category:      domain.CategoryRoad,
			},
		},
		{
			name: "future year ignored",
			listing: domain.RawListing{
				Title: "Rose Ground Control 2031 Edition",
				Price: 1200,
			},
			want: domain.ParsedRecord{
				Title: "Rose Ground Control 2031 Edition",
				Brand: "Rose",
				Model: "Ground Control 2031 Edition",
				Price: intPtr(1200),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := p.Parse(&tt.listing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{text: "Santa Cruz Bronson M/L", want: "M/L"},
		{text: "Rahmengröße: XL", want: "XL"},
		{text: "Gr. S", want: "S"},
		{text: "Rahmenhöhe 52,5 cm", want: "52.5cm"},
		{text: `Rahmen 19" Hardtail`, want: `19"`},
		{text: "L", want: "L"},
		{text: "Laufräder 700 cm", want: ""},
		{text: "S-Works Epic", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.FrameSize(tt.text))
		})
	}
}

func TestWheelSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{text: "Specialized Stumpjumper 29er", want: "29"},
		{text: `Trek Remedy 27.5"`, want: "27.5"},
		{text: "Cube 650b Hardtail", want: "27.5"},
		{text: `Klassiker 26" Laufräder`, want: "26"},
		{text: "Bianchi 700c", want: "700c"},
		{text: "Mondraker mit 29/27,5 Laufrädern", want: "mullet"},
		{text: "Preis 1.299 Euro", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.WheelSize(tt.text))
		})
	}
}

func TestParser_Year(t *testing.T) {
	t.Parallel()

	p := newTestParser()

	y := p.Year("Specialized Enduro, Modelljahr: 2022, gekauft 2023")
	require.NotNil(t, y)
	assert.Equal(t, 2022, *y)

	y = p.Year("Trek Slash 2026")
	require.NotNil(t, y, "next model year is plausible")
	assert.Equal(t, 2026, *y)

	assert.Nil(t, p.Year("Trek Slash 1985"))
	assert.Nil(t, p.Year("kein Jahr"))
}
