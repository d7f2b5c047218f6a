package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/donaldgifford/bike-hunter/internal/fetch"
	"github.com/donaldgifford/bike-hunter/internal/imagestore"
	"github.com/donaldgifford/bike-hunter/internal/metrics"
	"github.com/donaldgifford/bike-hunter/internal/notify"
	"github.com/donaldgifford/bike-hunter/pkg/arbiter"
	"github.com/donaldgifford/bike-hunter/pkg/decision"
	"github.com/donaldgifford/bike-hunter/pkg/extract"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
	"github.com/donaldgifford/bike-hunter/pkg/valuation"
)

// auditConfidence is the AI confidence below which a record needs a human look.
const auditConfidence = 70

// photo is a downloaded listing image.
type photo struct {
	url  string
	data []byte
	mime string
}

// media holds everything visual known about a listing.
type media struct {
	photos      []photo
	screenshots []extract.Image
}

// forModel returns the images shown to the vision model: rendered
// screenshots when available, the listing photos otherwise.
func (m *media) forModel() []extract.Image {
	if len(m.screenshots) > 0 {
		return m.screenshots
	}
	imgs := make([]extract.Image, 0, len(m.photos))
	for _, p := range m.photos {
		imgs = append(imgs, extract.Image{Data: p.data, MIMEType: p.mime})
	}
	return imgs
}

// ProcessListing drives one search result through
// fetched → pre_filtered → parsed → arbitrated → valuated → decided → persisted.
// Any stage may end the listing; the returned Outcome says where and why.
// The error is non-nil only when the run must stop (a frozen breaker).
func (eng *Engine) ProcessListing(
	ctx context.Context,
	runID string,
	item *domain.SearchItem,
) (domain.Outcome, error) {
	out := domain.Outcome{RunID: runID, URL: item.Link}

	l, err := eng.Marketplace.Detail(ctx, item.Link)
	if err != nil {
		reject(&out, domain.StageFetched, "fetching detail page: "+err.Error())
		eng.finish(ctx, &out)
		return out, stopError(err)
	}
	if l.Link == "" {
		l.Link = item.Link
	}
	if l.Price == 0 {
		l.Price = item.Price
	}
	if l.Location == "" {
		l.Location = item.Location
	}
	eng.markSeen(item.Link)

	// pre_filtered
	if v := eng.KillSwitch.Evaluate(l); v.Kill {
		reject(&out, domain.StagePreFiltered, v.Rule+": "+v.Reason)
		eng.finish(ctx, &out)
		return out, nil
	}

	m, err := eng.collectMedia(ctx, l)
	if err != nil {
		reject(&out, domain.StagePreFiltered, "rendering listing: "+err.Error())
		eng.finish(ctx, &out)
		return out, stopError(err)
	}

	// parsed
	parsed, enriched, err := eng.Extractor.Extract(ctx, l, m.forModel())
	if err != nil {
		reject(&out, domain.StageParsed, err.Error())
		eng.finish(ctx, &out)
		return out, nil
	}

	// arbitrated
	res := eng.Arbiter.Reconcile(parsed, enriched)
	if !res.Approved {
		draft := eng.Arbiter.Merge(parsed, enriched)
		eng.recordComparable(ctx, draft, l)
		eng.routeConflict(ctx, &out, &res, &draft, l)
		eng.finish(ctx, &out)
		return out, nil
	}
	merged := res.Merged

	cond := eng.scoreCondition(ctx, &m, l)

	// valuated
	fmv, err := eng.Valuator.Estimate(ctx, valuation.Request{
		Brand:         merged.Brand,
		Model:         merged.Model,
		Year:          merged.Year,
		FrameSize:     merged.FrameSize,
		FrameMaterial: merged.FrameMaterial,
		AskingPrice:   merged.Price,
	})
	eng.recordComparable(ctx, *merged, l)
	if err != nil {
		if !errors.Is(err, valuation.ErrInsufficientData) {
			reject(&out, domain.StageValuated, "estimating fmv: "+err.Error())
			eng.finish(ctx, &out)
			return out, nil
		}
		fmv = nil
	}

	// decided
	d := eng.Decider.Decide(merged, fmv, cond, l)
	if res.NeedsReview {
		decision.Hold(&d, "source conflicts: "+strings.Join(res.Reasons, "; "))
	}
	if d.Verdict == domain.VerdictDiscard {
		reject(&out, domain.StageDecided, strings.Join(d.Reasons, "; "))
		eng.finish(ctx, &out)
		return out, nil
	}

	if d.Jackpot {
		eng.saveReview(ctx, &domain.ManualReview{
			URL:     l.Link,
			Kind:    domain.ReviewJackpot,
			Title:   l.Title,
			Brand:   merged.Brand,
			Model:   merged.Model,
			Price:   merged.Price,
			Reasons: d.Reasons,
		})
		eng.notify(ctx, eventFor(notify.KindJackpot, merged, fmv, &d, l))
	}

	// persisted
	bike := eng.buildBike(merged, &enriched, fmv, &cond, &d, l)
	bike.Images = eng.persistImages(ctx, m.photos, l)
	if len(bike.Images) > 0 {
		bike.MainImage = bike.Images[0]
	}
	if err := eng.Store.UpsertBike(ctx, bike); err != nil {
		reject(&out, domain.StageDecided, "persisting bike: "+err.Error())
		eng.finish(ctx, &out)
		return out, nil
	}

	if d.HotnessAlert {
		ev := eventFor(notify.KindHotness, merged, fmv, &d, l)
		if bike.MainImage != "" {
			ev.ImageURL = bike.MainImage
		}
		eng.notify(ctx, ev)
	}

	out.Stage = domain.StagePersisted
	out.Verdict = d.Verdict
	out.Reason = strings.Join(d.Reasons, "; ")
	eng.finish(ctx, &out)
	return out, nil
}

// routeConflict ends a listing the arbiter did not approve. Records missing
// required fields are discarded; real disagreements go to manual review.
func (eng *Engine) routeConflict(
	ctx context.Context,
	out *domain.Outcome,
	res *arbiter.Result,
	draft *domain.MergedRecord,
	l *domain.RawListing,
) {
	reason := strings.Join(res.Reasons, "; ")
	for _, c := range res.Conflicts {
		if c.Field == arbiter.FieldRequired {
			reject(out, domain.StageArbitrated, reason)
			return
		}
	}

	eng.saveReview(ctx, &domain.ManualReview{
		URL:     l.Link,
		Kind:    domain.ReviewConflict,
		Title:   l.Title,
		Brand:   draft.Brand,
		Model:   draft.Model,
		Price:   draft.Price,
		Reasons: res.Reasons,
	})
	out.Stage = domain.StageArbitrated
	out.Verdict = domain.VerdictHold
	out.Reason = "manual review: " + reason
}

func (eng *Engine) scoreCondition(ctx context.Context, m *media, l *domain.RawListing) domain.ConditionReport {
	if eng.Condition == nil {
		return domain.UnassessedCondition("condition scoring disabled")
	}
	images := m.forModel()
	if len(images) == 0 {
		return domain.UnassessedCondition("no images to assess")
	}
	cr, err := eng.Condition.Score(ctx, images, l.Description, l.Facts)
	if err != nil {
		eng.log.Warn("condition scoring failed", "url", l.Link, "error", err)
		return domain.UnassessedCondition("condition scoring failed")
	}
	return cr
}

// collectMedia downloads the listing photos and, with a renderer configured,
// captures screenshots of the page. Only a frozen breaker is returned as an
// error; other failures leave the media partial.
func (eng *Engine) collectMedia(ctx context.Context, l *domain.RawListing) (media, error) {
	var m media

	if eng.Renderer != nil {
		rendered, err := eng.Renderer.Render(ctx, l.Link)
		switch {
		case errors.Is(err, fetch.ErrFrozen):
			return m, err
		case err != nil:
			eng.log.Warn("render failed", "url", l.Link, "error", err)
		default:
			for _, shot := range rendered.Screenshots {
				m.screenshots = append(m.screenshots, extract.Image{Data: shot, MIMEType: "image/png"})
			}
		}
	}

	if eng.ImageFetcher == nil {
		return m, nil
	}
	for _, u := range l.Images {
		if len(m.photos) >= eng.cfg.MaxImages {
			break
		}
		data, err := eng.ImageFetcher.Fetch(ctx, u)
		if err != nil {
			eng.log.Warn("image download failed", "url", u, "error", err)
			if errors.Is(err, fetch.ErrFrozen) {
				break
			}
			continue
		}
		mime := http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			eng.log.Debug("skipping non-image download", "url", u, "mime", mime)
			continue
		}
		m.photos = append(m.photos, photo{url: u, data: data, mime: mime})
	}
	return m, nil
}

// persistImages stores the photos and returns their URLs. Photos that
// cannot be stored keep their source URL.
func (eng *Engine) persistImages(ctx context.Context, photos []photo, l *domain.RawListing) []string {
	if len(photos) == 0 {
		return nil
	}
	urls := make([]string, 0, len(photos))
	folder := imagestore.Sanitize(path.Base(strings.TrimRight(l.Link, "/")))
	for i, p := range photos {
		if eng.Images == nil {
			urls = append(urls, p.url)
			continue
		}
		u, err := eng.Images.Put(ctx, p.data, fmt.Sprintf("%d%s", i, extension(p.mime)), folder)
		if err != nil {
			eng.log.Warn("storing image failed", "url", p.url, "error", err)
			urls = append(urls, p.url)
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

func extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".img"
	}
}

// recordComparable adds a decodable listing to the comparables corpus.
func (eng *Engine) recordComparable(ctx context.Context, m domain.MergedRecord, l *domain.RawListing) {
	if m.Brand == "" || m.Price <= 0 {
		return
	}
	inserted, err := eng.Store.InsertComparable(ctx, &domain.MarketComparable{
		Brand:         m.Brand,
		Model:         m.Model,
		Title:         l.Title,
		PriceEUR:      m.Price,
		Year:          m.Year,
		FrameSize:     m.FrameSize,
		FrameMaterial: m.FrameMaterial,
		ScrapedAt:     eng.nowFunc(),
		SourceURL:     l.Link,
	})
	if err != nil {
		eng.log.Warn("recording comparable failed", "url", l.Link, "error", err)
		return
	}
	if inserted {
		metrics.ComparablesInsertedTotal.Inc()
	}
}

func (eng *Engine) buildBike(
	m *domain.MergedRecord,
	enriched *domain.EnrichedRecord,
	fmv *domain.FMVResult,
	cond *domain.ConditionReport,
	d *domain.Decision,
	l *domain.RawListing,
) *domain.Bike {
	b := &domain.Bike{
		OriginalURL:       l.Link,
		Title:             l.Title,
		Brand:             m.Brand,
		Model:             m.Model,
		Price:             m.Price,
		Category:          m.Category,
		Description:       l.Description,
		Year:              m.Year,
		FrameMaterial:     m.FrameMaterial,
		FrameSize:         m.FrameSize,
		WheelSize:         m.WheelSize,
		Location:          l.Location,
		Negotiable:        l.Negotiable,
		SellerName:        l.SellerName,
		SellerType:        l.SellerType,
		SellerMemberSince: l.SellerMemberSince,
		IsActive:          d.IsActive,
		Priority:          d.Priority,
		ConditionScore:    cond.Score,
		ConditionGrade:    cond.Grade,
		ConditionPenalty:  cond.Penalty,
		ConditionReasons:  cond.Reasons,
		ConditionDefects:  cond.Defects,
		ConditionPositive: cond.Positives,
		NeedsAudit:        cond.NeedsReview || (enriched.ConfidenceScore > 0 && enriched.ConfidenceScore < auditConfidence),
		HotnessScore:      d.HotnessScore,
		SalvageValue:      d.SalvageValue,
		SalvageGem:        d.SalvageGem,
		Views:             l.Views,
		PublishDate:       l.PublishDate,
		ConfidenceScore:   m.ConfidenceScore,
	}
	if fmv != nil {
		v := fmv.FMV
		b.FMV = &v
		b.FMVConfidence = fmv.Confidence
	}
	return b
}

func eventFor(
	kind notify.EventKind,
	m *domain.MergedRecord,
	fmv *domain.FMVResult,
	d *domain.Decision,
	l *domain.RawListing,
) *notify.Event {
	ev := &notify.Event{
		Kind:         kind,
		Title:        l.Title,
		URL:          l.Link,
		Brand:        m.Brand,
		Model:        m.Model,
		Price:        m.Price,
		DiscountPct:  d.DiscountPct,
		HotnessScore: d.HotnessScore,
		Margin:       d.Margin,
		Reasons:      d.Reasons,
	}
	if fmv != nil {
		v := fmv.FMV
		ev.FMV = &v
	}
	if len(l.Images) > 0 {
		ev.ImageURL = l.Images[0]
	}
	return ev
}

// notify delivers ev without letting a failure reach the pipeline.
func (eng *Engine) notify(ctx context.Context, ev *notify.Event) {
	if eng.Notifier == nil {
		return
	}
	if err := eng.Notifier.Notify(ctx, ev); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		eng.log.Warn("notification failed", "kind", ev.Kind, "url", ev.URL, "error", err)
	}
}

func (eng *Engine) saveReview(ctx context.Context, r *domain.ManualReview) {
	if err := eng.Store.SaveManualReview(ctx, r); err != nil {
		eng.log.Error("saving manual review failed", "url", r.URL, "kind", r.Kind, "error", err)
	}
}

func (eng *Engine) markSeen(link string) {
	if eng.Seen == nil {
		return
	}
	if err := eng.Seen.Mark(link); err != nil {
		eng.log.Warn("marking listing seen failed", "url", link, "error", err)
	}
}

// finish stamps, counts, logs and records a terminal outcome.
func (eng *Engine) finish(ctx context.Context, out *domain.Outcome) {
	out.At = eng.nowFunc()
	metrics.DecisionsTotal.WithLabelValues(string(out.Stage), string(out.Verdict)).Inc()
	eng.log.Info("listing outcome",
		"run_id", out.RunID,
		"url", out.URL,
		"stage", out.Stage,
		"verdict", out.Verdict,
		"reason", out.Reason,
	)
	if err := eng.Store.RecordOutcome(ctx, out); err != nil {
		eng.log.Warn("recording outcome failed", "url", out.URL, "error", err)
	}
}

func reject(out *domain.Outcome, stage domain.Stage, reason string) {
	out.Stage = stage
	out.Verdict = domain.VerdictDiscard
	out.Reason = reason
}

// stopError passes through only the errors that end the run.
func stopError(err error) error {
	if errors.Is(err, fetch.ErrFrozen) {
		return err
	}
	return nil
}
