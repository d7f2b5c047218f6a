// Package domain defines the core business types for the bike hunter.
package domain

import (
	"time"
)

// Category is the riding discipline a target or listing belongs to.
type Category string

// Category constants.
const (
	CategoryXC     Category = "xc"
	CategoryTrail  Category = "trail"
	CategoryEnduro Category = "enduro"
	CategoryDH     Category = "dh"
	CategoryEMTB   Category = "emtb"
	CategoryRoad   Category = "road"
	CategoryGravel Category = "gravel"
	CategoryOther  Category = "other"
)

// PriceTier groups targets by asking-price segment.
type PriceTier string

// Price tier constants.
const (
	TierBudget  PriceTier = "budget"
	TierMid     PriceTier = "mid"
	TierPremium PriceTier = "premium"
	TierHighEnd PriceTier = "high_end"
)

// Target is one brand/price-segment search the hunter runs. Targets are
// regenerated for every run.
type Target struct {
	Brand    string    `json:"brand"`
	Model    string    `json:"model,omitempty"`
	Category Category  `json:"category"`
	Tier     PriceTier `json:"tier"`
	MinPrice int       `json:"min_price"`
	MaxPrice int       `json:"max_price"`
	Priority int       `json:"priority"`
	Quota    int       `json:"quota"`
}

// Query returns the free-text search string for the target.
func (t *Target) Query() string {
	if t.Model == "" {
		return t.Brand
	}
	return t.Brand + " " + t.Model
}

// SellerType distinguishes private sellers from dealers.
type SellerType string

// Seller type constants.
const (
	SellerUnknown    SellerType = ""
	SellerPrivate    SellerType = "private"
	SellerCommercial SellerType = "commercial"
)

// SearchItem is one card on a search results page, before the detail page
// has been visited.
type SearchItem struct {
	Title    string `json:"title"`
	Price    int    `json:"price"`
	Link     string `json:"link"`
	Location string `json:"location,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// RawListing is everything scraped from a single detail page.
type RawListing struct {
	Title             string     `json:"title"`
	Price             int        `json:"price"`
	Negotiable        bool       `json:"negotiable"`
	Description       string     `json:"description"`
	Images            []string   `json:"images"`
	Location          string     `json:"location,omitempty"`
	SellerName        string     `json:"seller_name,omitempty"`
	SellerType        SellerType `json:"seller_type,omitempty"`
	SellerMemberSince *time.Time `json:"seller_member_since,omitempty"`
	Link              string     `json:"link"`
	PublishDate       *time.Time `json:"publish_date,omitempty"`
	Views             int        `json:"views"`
	// Facts are the key/value attributes from the listing's detail list.
	Facts map[string]string `json:"facts,omitempty"`
}

// Material is a normalized frame material.
type Material string

// Material constants.
const (
	MaterialUnknown  Material = ""
	MaterialCarbon   Material = "carbon"
	MaterialAluminum Material = "aluminum"
	MaterialSteel    Material = "steel"
	MaterialTitanium Material = "titanium"
	MaterialOther    Material = "other"
)

// ParsedRecord is the deterministic extraction of a listing from its text
// and DOM. Empty strings and nil pointers mean "not found".
type ParsedRecord struct {
	Title         string   `json:"title"`
	Brand         string   `json:"brand,omitempty"`
	Model         string   `json:"model,omitempty"`
	Year          *int     `json:"year,omitempty"`
	FrameMaterial string   `json:"frame_material,omitempty"`
	FrameSize     string   `json:"frame_size,omitempty"`
	WheelSize     string   `json:"wheel_size,omitempty"`
	Category      Category `json:"category,omitempty"`
	Price         *int     `json:"price,omitempty"`
}

// EnrichedRecord is the AI vision-language extraction of a listing. The
// zero value is a valid "no enrichment" record.
type EnrichedRecord struct {
	Brand           string   `json:"brand,omitempty"`
	Model           string   `json:"model,omitempty"`
	Year            *int     `json:"year,omitempty"`
	Material        string   `json:"material,omitempty"`
	FrameSize       string   `json:"frame_size,omitempty"`
	WheelSize       string   `json:"wheel_size,omitempty"`
	Category        Category `json:"category,omitempty"`
	Price           *int     `json:"price,omitempty"`
	ConfidenceScore int      `json:"confidence_score,omitempty"`
}

// IsEmpty reports whether the AI contributed nothing.
func (e *EnrichedRecord) IsEmpty() bool {
	return e.Brand == "" && e.Model == "" && e.Year == nil && e.Material == "" &&
		e.FrameSize == "" && e.WheelSize == "" && e.Category == "" && e.Price == nil
}

// MergedRecord is the reconciled description of a listing. Brand, Model and
// Price are required for a record to be valid.
type MergedRecord struct {
	Title           string   `json:"title"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Year            *int     `json:"year,omitempty"`
	FrameMaterial   string   `json:"frame_material,omitempty"`
	FrameSize       string   `json:"frame_size,omitempty"`
	WheelSize       string   `json:"wheel_size,omitempty"`
	Category        Category `json:"category,omitempty"`
	Price           int      `json:"price"`
	ConfidenceScore int      `json:"confidence_score,omitempty"`
}

// ConditionGrade is the letter grade of a condition report.
type ConditionGrade string

// Condition grade constants.
const (
	GradeA ConditionGrade = "A"
	GradeB ConditionGrade = "B"
	GradeC ConditionGrade = "C"
	GradeD ConditionGrade = "D"
)

// ConditionReport is the external visual condition assessment.
type ConditionReport struct {
	Score       float64        `json:"score"`
	Grade       ConditionGrade `json:"grade"`
	Penalty     float64        `json:"penalty"`
	Reasons     []string       `json:"reasons,omitempty"`
	Defects     []string       `json:"defects,omitempty"`
	Positives   []string       `json:"positives,omitempty"`
	NeedsReview bool           `json:"needs_review"`
}

// UnassessedCondition is used when condition scoring is unavailable.
func UnassessedCondition(reason string) ConditionReport {
	return ConditionReport{
		Reasons:     []string{reason},
		NeedsReview: true,
	}
}

// MarketComparable is one observed listing in the comparables corpus.
type MarketComparable struct {
	ID            int64     `json:"id"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	Title         string    `json:"title"`
	PriceEUR      int       `json:"price_eur"`
	Year          *int      `json:"year,omitempty"`
	FrameSize     string    `json:"frame_size,omitempty"`
	FrameMaterial string    `json:"frame_material,omitempty"`
	ScrapedAt     time.Time `json:"scraped_at"`
	SourceURL     string    `json:"source_url"`
}

// ComparableQuery selects rows from the comparables corpus. Patterns are
// matched case-insensitively as substrings of model or title; an empty
// Patterns selects every row of the brand.
type ComparableQuery struct {
	Brand      string
	Patterns   []string
	RecentDays int
	Limit      int
}

// Confidence is the trust level of an FMV estimate.
type Confidence string

// Confidence constants.
const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// FMVMethod names how an estimate was produced.
type FMVMethod string

// FMV method constants.
const (
	MethodYearWindow   FMVMethod = "year_window"
	MethodDepreciation FMVMethod = "depreciation_weighted"
	MethodBrandCeiling FMVMethod = "brand_ceiling_estimate"
)

// FMVResult is a fair market value estimate. It is recomputed per request
// and never stored long-term.
type FMVResult struct {
	FMV        int        `json:"fmv"`
	Confidence Confidence `json:"confidence"`
	SampleSize int        `json:"sample_size"`
	Method     FMVMethod  `json:"method"`
	Floored    bool       `json:"floored,omitempty"`
}

// Priority ranks a published or held item.
type Priority string

// Priority constants.
const (
	PriorityNormal    Priority = "normal"
	PriorityHigh      Priority = "high"
	PriorityUltraHigh Priority = "ultra_high"
)

// Rank orders priorities so that escalations can be compared.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityUltraHigh:
		return 2
	default:
		return 0
	}
}

// AtLeast returns the higher of p and other.
func (p Priority) AtLeast(other Priority) Priority {
	if other.Rank() > p.Rank() {
		return other
	}
	return p
}

// Verdict is the terminal decision for an item.
type Verdict string

// Verdict constants.
const (
	VerdictPublish Verdict = "publish"
	VerdictHold    Verdict = "hold"
	VerdictDiscard Verdict = "discard"
)

// Decision is the outcome of the decision engine for one item.
type Decision struct {
	Verdict      Verdict  `json:"verdict"`
	IsActive     bool     `json:"is_active"`
	Priority     Priority `json:"priority"`
	Margin       float64  `json:"margin"`
	DiscountPct  float64  `json:"discount_pct"`
	HotnessScore float64  `json:"hotness_score"`
	SalvageValue float64  `json:"salvage_value"`
	SalvageGem   bool     `json:"salvage_gem"`
	HotnessAlert bool     `json:"hotness_alert"`
	Jackpot      bool     `json:"jackpot"`
	Reasons      []string `json:"reasons,omitempty"`
}

// BreakerState is a snapshot of a per-host circuit breaker.
type BreakerState struct {
	Host                string    `json:"host"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	FrozenUntil         time.Time `json:"frozen_until"`
}

// Stage is a step of the per-listing pipeline.
type Stage string

// Pipeline stages in order.
const (
	StageFetched     Stage = "fetched"
	StagePreFiltered Stage = "pre_filtered"
	StageParsed      Stage = "parsed"
	StageArbitrated  Stage = "arbitrated"
	StageValuated    Stage = "valuated"
	StageDecided     Stage = "decided"
	StagePersisted   Stage = "persisted"
)

// Outcome is the auditable terminal result for one listing.
type Outcome struct {
	RunID   string    `json:"run_id"`
	URL     string    `json:"url"`
	Stage   Stage     `json:"stage"`
	Verdict Verdict   `json:"verdict"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// Bike is the persisted catalog record, keyed by OriginalURL.
type Bike struct {
	ID                int64          `json:"id"`
	OriginalURL       string         `json:"original_url"`
	Title             string         `json:"title"`
	Brand             string         `json:"brand"`
	Model             string         `json:"model"`
	Price             int            `json:"price"`
	Category          Category       `json:"category,omitempty"`
	Description       string         `json:"description,omitempty"`
	Year              *int           `json:"year,omitempty"`
	FrameMaterial     string         `json:"frame_material,omitempty"`
	FrameSize         string         `json:"frame_size,omitempty"`
	WheelSize         string         `json:"wheel_size,omitempty"`
	Location          string         `json:"location,omitempty"`
	Negotiable        bool           `json:"negotiable"`
	SellerName        string         `json:"seller_name,omitempty"`
	SellerType        SellerType     `json:"seller_type,omitempty"`
	SellerMemberSince *time.Time     `json:"seller_member_since,omitempty"`
	IsActive          bool           `json:"is_active"`
	Priority          Priority       `json:"priority"`
	FMV               *int           `json:"fmv,omitempty"`
	FMVConfidence     Confidence     `json:"fmv_confidence,omitempty"`
	ConditionScore    float64        `json:"condition_score"`
	ConditionGrade    ConditionGrade `json:"condition_grade,omitempty"`
	ConditionPenalty  float64        `json:"condition_penalty"`
	ConditionReasons  []string       `json:"condition_reasons,omitempty"`
	ConditionDefects  []string       `json:"condition_defects,omitempty"`
	ConditionPositive []string       `json:"condition_positives,omitempty"`
	NeedsAudit        bool           `json:"needs_audit"`
	HotnessScore      float64        `json:"hotness_score"`
	SalvageValue      float64        `json:"salvage_value"`
	SalvageGem        bool           `json:"salvage_gem"`
	Views             int            `json:"views"`
	PublishDate       *time.Time     `json:"publish_date,omitempty"`
	ConfidenceScore   int            `json:"confidence_score"`
	MainImage         string         `json:"main_image,omitempty"`
	Images            []string       `json:"images,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ReviewKind explains why an item landed in the manual review queue.
type ReviewKind string

// Review kind constants.
const (
	ReviewConflict ReviewKind = "conflict"
	ReviewJackpot  ReviewKind = "jackpot"
)

// ManualReview is an item routed to a human instead of being published.
type ManualReview struct {
	ID        int64      `json:"id"`
	URL       string     `json:"url"`
	Kind      ReviewKind `json:"kind"`
	Title     string     `json:"title"`
	Brand     string     `json:"brand,omitempty"`
	Model     string     `json:"model,omitempty"`
	Price     int        `json:"price"`
	Reasons   []string   `json:"reasons"`
	CreatedAt time.Time  `json:"created_at"`
}

// RunSummary aggregates the terminal outcomes of one hunt run.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Targets   int           `json:"targets"`
	Seen      int           `json:"seen"`
	Published int           `json:"published"`
	Held      int           `json:"held"`
	Rejected  int           `json:"rejected"`
	Duplicate int           `json:"duplicate"`
	Frozen    bool          `json:"frozen"`
	TimedOut  bool          `json:"timed_out"`
	Duration  time.Duration `json:"duration"`
}
