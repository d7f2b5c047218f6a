package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Comparable queries.
const (
	queryInsertComparable = `
		INSERT INTO market_history (
			brand, model, title, price_eur, year, frame_size, frame_material,
			scraped_at, source_url
		) VALUES (
			@brand, @model, @title, @price_eur, @year, @frame_size, @frame_material,
			@scraped_at, @source_url
		)
		ON CONFLICT (source_url) DO NOTHING
		RETURNING id`

	baseComparablesSelect = `SELECT id, brand, model, title, price_eur, year,
	COALESCE(frame_size, ''), COALESCE(frame_material, ''), scraped_at, source_url
FROM market_history`

	queryCountComparables = `SELECT COUNT(*) FROM market_history`
)

// Bike queries.
const (
	queryUpsertBike = `
		INSERT INTO bikes (
			original_url, title, brand, model, price, category, description,
			year, frame_material, frame_size, wheel_size, location, negotiable,
			seller_name, seller_type, seller_member_since,
			is_active, priority, fmv, fmv_confidence,
			condition_score, condition_grade, condition_penalty,
			condition_reasons, condition_defects, condition_positives,
			needs_audit, hotness_score, salvage_value, salvage_gem,
			views, publish_date, confidence_score, main_image,
			created_at, updated_at
		) VALUES (
			@original_url, @title, @brand, @model, @price, @category, @description,
			@year, @frame_material, @frame_size, @wheel_size, @location, @negotiable,
			@seller_name, @seller_type, @seller_member_since,
			@is_active, @priority, @fmv, @fmv_confidence,
			@condition_score, @condition_grade, @condition_penalty,
			@condition_reasons, @condition_defects, @condition_positives,
			@needs_audit, @hotness_score, @salvage_value, @salvage_gem,
			@views, @publish_date, @confidence_score, @main_image,
			now(), now()
		)
		ON CONFLICT (original_url) DO UPDATE SET
			title = EXCLUDED.title,
			brand = EXCLUDED.brand,
			model = EXCLUDED.model,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			year = EXCLUDED.year,
			frame_material = EXCLUDED.frame_material,
			frame_size = EXCLUDED.frame_size,
			wheel_size = EXCLUDED.wheel_size,
			location = EXCLUDED.location,
			negotiable = EXCLUDED.negotiable,
			seller_name = EXCLUDED.seller_name,
			seller_type = EXCLUDED.seller_type,
			seller_member_since = EXCLUDED.seller_member_since,
			is_active = EXCLUDED.is_active,
			priority = EXCLUDED.priority,
			fmv = EXCLUDED.fmv,
			fmv_confidence = EXCLUDED.fmv_confidence,
			condition_score = EXCLUDED.condition_score,
			condition_grade = EXCLUDED.condition_grade,
			condition_penalty = EXCLUDED.condition_penalty,
			condition_reasons = EXCLUDED.condition_reasons,
			condition_defects = EXCLUDED.condition_defects,
			condition_positives = EXCLUDED.condition_positives,
			needs_audit = EXCLUDED.needs_audit,
			hotness_score = EXCLUDED.hotness_score,
			salvage_value = EXCLUDED.salvage_value,
			salvage_gem = EXCLUDED.salvage_gem,
			views = EXCLUDED.views,
			publish_date = EXCLUDED.publish_date,
			confidence_score = EXCLUDED.confidence_score,
			main_image = EXCLUDED.main_image,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	queryDeleteBikeImages = `DELETE FROM bike_images WHERE bike_id = $1`

	queryInsertBikeImage = `
		INSERT INTO bike_images (bike_id, position, url)
		VALUES ($1, $2, $3)`

	queryListBikeImages = `
		SELECT url FROM bike_images WHERE bike_id = $1 ORDER BY position`

	baseBikesSelect = `SELECT id, original_url, title, brand, model, price,
	COALESCE(category, ''), COALESCE(description, ''), year,
	COALESCE(frame_material, ''), COALESCE(frame_size, ''), COALESCE(wheel_size, ''),
	COALESCE(location, ''), negotiable,
	COALESCE(seller_name, ''), COALESCE(seller_type, ''), seller_member_since,
	is_active, priority, fmv, COALESCE(fmv_confidence, ''),
	condition_score, COALESCE(condition_grade, ''), condition_penalty,
	condition_reasons, condition_defects, condition_positives,
	needs_audit, hotness_score, salvage_value, salvage_gem,
	views, publish_date, confidence_score, COALESCE(main_image, ''),
	created_at, updated_at
FROM bikes`

	queryGetBikeByURL = baseBikesSelect + ` WHERE original_url = $1`
)

// Manual review queries.
const (
	querySaveManualReview = `
		INSERT INTO manual_reviews (url, kind, title, brand, model, price, reasons)
		VALUES (@url, @kind, @title, @brand, @model, @price, @reasons)
		ON CONFLICT (url) DO UPDATE SET
			kind = EXCLUDED.kind,
			title = EXCLUDED.title,
			brand = EXCLUDED.brand,
			model = EXCLUDED.model,
			price = EXCLUDED.price,
			reasons = EXCLUDED.reasons
		RETURNING id, created_at`

	queryListManualReviews = `
		SELECT id, url, kind, title, COALESCE(brand, ''), COALESCE(model, ''), price, reasons, created_at
		FROM manual_reviews
		WHERE status = 'pending'
		ORDER BY created_at DESC, id DESC
		LIMIT $1`
)

// Outcome queries.
const (
	queryRecordOutcome = `
		INSERT INTO hunt_outcomes (run_id, url, stage, verdict, reason, at)
		VALUES (@run_id, @url, @stage, @verdict, @reason, @at)`
)
