// Package lexicon holds the versioned keyword tables used by the filters,
// parsers and decision heuristics. Tables are plain data so they can be
// injected, tested and extended without touching control flow.
package lexicon

import (
	"sort"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Version identifies the revision of the default tables. Bump it whenever a
// table changes so that logged verdicts can be traced to a lexicon.
const Version = "2025.10"

// Table maps a canonical term to its aliases. Aliases are matched after
// folding, so they may be written with or without diacritics.
type Table map[string][]string

// Lexicon bundles every keyword table the pipeline consumes.
type Lexicon struct {
	Version string

	// Brands maps the display name of a brand to its aliases.
	Brands Table
	// Materials maps a normalized frame material to its keywords.
	Materials map[domain.Material][]string
	// Categories maps a listing category to title keywords, checked in
	// CategoryOrder.
	Categories    map[domain.Category][]string
	CategoryOrder []domain.Category

	Wanted     []string
	Blocklist  []string
	StopWords []string
	// WholeStopWords are stop words matched on word boundaries only; every
	// other stop word also matches inside compounds.
	WholeStopWords []string
	// FrameSizeWords name a complete bike's frame size and are removed
	// from a title before stop words are matched.
	FrameSizeWords []string
	PartsWords     []string
	// BikeWords exempts a title from the parts patterns.
	BikeWords []string

	PremiumBrands       []string
	JackpotBrands       []string
	HighValueComponents []string
	DamageWords         []string
	KidsWords           []string
	StolenWords         []string

	// ComponentAnchors lists list prices of high-value parts, keyed by the
	// phrase matched against descriptions.
	ComponentAnchors map[string]float64
	// BrandCeilings is the new-bike price ceiling per brand (lowercase key).
	BrandCeilings  map[string]int
	DefaultCeiling int

	// Models is the target model table: category -> brand -> models.
	Models map[domain.Category]map[string][]string
}

// Default returns the built-in tables.
func Default() *Lexicon {
	return &Lexicon{
		Version: Version,
		Brands: Table{
			"Trek":           {"trek"},
			"Giant":          {"giant"},
			"Specialized":    {"specialized"},
			"Cannondale":     {"cannondale"},
			"Scott":          {"scott"},
			"Merida":         {"merida"},
			"Cube":           {"cube"},
			"Canyon":         {"canyon"},
			"Bianchi":        {"bianchi"},
			"Orbea":          {"orbea"},
			"Mondraker":      {"mondraker"},
			"Commencal":      {"commencal"},
			"Santa Cruz":     {"santa cruz", "santacruz"},
			"YT":             {"yt industries", "yt"},
			"Propain":        {"propain"},
			"Nukeproof":      {"nukeproof"},
			"Pivot":          {"pivot"},
			"Norco":          {"norco"},
			"Kona":           {"kona"},
			"Marin":          {"marin"},
			"Ibis":           {"ibis"},
			"Intense":        {"intense"},
			"Transition":     {"transition"},
			"Rocky Mountain": {"rocky mountain"},
			"Lapierre":       {"lapierre"},
			"Rose":           {"rose"},
			"Vitus":          {"vitus"},
			"Radon":          {"radon"},
			"Polygon":        {"polygon"},
			"Ghost":          {"ghost"},
			"BMC":            {"bmc"},
			"BH":             {"bh"},
			"NS Bikes":       {"ns bikes"},
			"Devinci":        {"devinci"},
			"Ragley":         {"ragley"},
			"Haibike":        {"haibike"},
			"Focus":          {"focus"},
			"Yeti":           {"yeti"},
			"Evil":           {"evil"},
			"Forbidden":      {"forbidden"},
		},
		Materials: map[domain.Material][]string{
			domain.MaterialCarbon:   {"carbon", "cf", "kohlefaser"},
			domain.MaterialAluminum: {"alu", "aluminium", "aluminum", "alloy"},
			domain.MaterialSteel:    {"steel", "stahl", "crmo", "chromoly"},
			domain.MaterialTitanium: {"titan", "titanium"},
		},
		Categories: map[domain.Category][]string{
			domain.CategoryEMTB:   {"e-bike", "ebike", "e mtb", "emtb", "elektro", "electric"},
			domain.CategoryDH:     {"downhill", "dh", "freeride"},
			domain.CategoryEnduro: {"enduro"},
			domain.CategoryTrail:  {"trail", "fully", "mountainbike", "mtb", "mountain"},
			domain.CategoryXC:     {"xc", "cross country", "hardtail"},
			domain.CategoryGravel: {"gravel", "cyclocross"},
			domain.CategoryRoad:   {"rennrad", "road", "racing"},
		},
		CategoryOrder: []domain.Category{
			domain.CategoryEMTB,
			domain.CategoryDH,
			domain.CategoryEnduro,
			domain.CategoryXC,
			domain.CategoryGravel,
			domain.CategoryRoad,
			domain.CategoryTrail,
		},
		Wanted: []string{"suche", "gesucht", "wtb", "kaufe", "ankauf", "wanted", "looking for"},
		Blocklist: []string{
			"auto", "motorrad", "roller", "e-scooter", "scooter", "kinderwagen",
			"laufrad kinder", "dreirad", "trikot", "helm", "helmet", "schuhe", "shoes",
			"hose", "jacke", "fahrradträger", "heckträger", "rollentrainer", "smart trainer",
			"bastler", "bastlerfahrrad", "projekt", "tausch", "trade only",
		},
		StopWords: []string{
			"defekt", "kaputt", "broken", "damaged",
			"rahmen", "frame only", "frameset", "rahmenset",
			"laufrad", "laufradsatz", "wheelset", "wheels",
			"gabel", "fork", "federgabel", "dämpfer", "shock",
			"sattel", "saddle", "sitz", "seat",
			"lenker", "handlebar", "bar",
			"pedale", "pedals",
			"bremse", "brake", "scheibenbremse",
			"schaltung", "shifter", "derailleur", "schaltwerk",
			"kassette", "cassette", "kette", "chain",
			"reifen", "tire", "tyre",
			"tretlager", "bottom bracket",
		},
		WholeStopWords: []string{"bar", "sitz", "seat"},
		FrameSizeWords: []string{"rahmengröße", "rahmengrösse", "rahmenhöhe", "rahmengr."},
		PartsWords:     []string{"teile", "parts", "set", "komponenten", "kit", "zubehör"},
		BikeWords:      []string{"bike"},
		PremiumBrands: []string{
			"santa cruz", "yeti", "specialized", "pivot", "transition", "forbidden",
			"ibis", "evil", "yt", "canyon", "trek", "propain",
		},
		JackpotBrands: []string{
			"santa cruz", "yeti", "specialized s-works", "s-works", "pivot", "transition",
			"forbidden", "ibis", "evil",
		},
		HighValueComponents: []string{
			"axs", "xtr", "kashima", "factory", "öhlins", "ohlins", "fox 40", "carbon",
		},
		DamageWords: []string{"riss", "crack", "cracked", "defekt", "broken", "gebrochen"},
		KidsWords:   []string{"kinder", "kinderfahrrad", "kids", "jugend", `24"`, `20"`, "24 zoll", "20 zoll"},
		StolenWords: []string{"gestohlen", "stolen", "ohne rechnung", "no papers"},
		ComponentAnchors: map[string]float64{
			"suntour durolux": 400,
			"marzocchi roco":  300,
			"shimano xt":      280,
			"shimano xtr":     450,
			"sram gx eagle":   320,
			"sram x01 eagle":  450,
			"sram xx1 eagle":  600,
			"fox 36 factory":  650,
			"fox 38 factory":  750,
			"fox 40":          800,
			"rockshox lyrik":  500,
			"rockshox zeb":    550,
			"dt swiss":        400,
			"hope pro":        350,
			"industry nine":   450,
			"chris king":      500,
		},
		BrandCeilings: map[string]int{
			"santa cruz":  8000,
			"yt":          6000,
			"pivot":       9000,
			"specialized": 10000,
			"canyon":      5000,
			"trek":        7000,
			"giant":       4000,
			"scott":       6000,
			"cube":        3500,
			"propain":     5500,
			"rose":        4500,
		},
		DefaultCeiling: 5000,
		Models: map[domain.Category]map[string][]string{
			domain.CategoryDH: {
				"Specialized": {"Demo 8", "Demo 9", "Demo Race"},
				"Santa Cruz":  {"V10"},
				"YT":          {"Tues"},
				"Canyon":      {"Sender"},
				"Trek":        {"Session"},
				"Giant":       {"Glory"},
				"Commencal":   {"Supreme DH"},
			},
			domain.CategoryEnduro: {
				"Specialized": {"Enduro", "S-Works Enduro", "Status", "Kenevo"},
				"Santa Cruz":  {"Megatower", "Nomad", "Bullit"},
				"YT":          {"Capra", "Decoy"},
				"Canyon":      {"Torque", "Strive", "Spectral:ON"},
				"Trek":        {"Slash", "Rail"},
				"Pivot":       {"Firebird", "Mach 6"},
				"Transition":  {"Patrol", "Spire", "Sentinel"},
				"Commencal":   {"Meta AM", "Meta SX", "Clash"},
				"Propain":     {"Tyee", "Spindrift"},
				"Nukeproof":   {"Mega", "Giga"},
				"Orbea":       {"Rallon"},
			},
			domain.CategoryTrail: {
				"Specialized": {"Stumpjumper", "Stumpjumper Evo", "Levo", "Levo SL"},
				"Santa Cruz":  {"Bronson", "Hightower", "Tallboy", "5010"},
				"YT":          {"Jeffsy", "Izzo"},
				"Canyon":      {"Spectral", "Neuron", "Stoic"},
				"Trek":        {"Fuel EX", "Remedy", "Roscoe"},
				"Giant":       {"Trance", "Reign"},
				"Scott":       {"Genius", "Ransom"},
				"Orbea":       {"Occam", "Laufey"},
				"Cube":        {"Stereo 120", "Stereo 140", "Stereo 150"},
				"Norco":       {"Optic", "Fluid"},
			},
			domain.CategoryXC: {
				"Specialized": {"Epic", "Epic Evo"},
				"Santa Cruz":  {"Blur"},
				"Canyon":      {"Lux"},
				"Scott":       {"Spark"},
				"Trek":        {"Top Fuel"},
			},
		},
	}
}

// Ceiling returns the new-bike price ceiling for brand.
func (l *Lexicon) Ceiling(brand string) int {
	if c, ok := l.BrandCeilings[Fold(brand)]; ok {
		return c
	}
	return l.DefaultCeiling
}

// SortedKeys returns the keys of m in lexical order. Map iteration order is
// random, and several matchers must be deterministic.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
