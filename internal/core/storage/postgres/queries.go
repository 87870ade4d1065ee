package postgres

// SQL for the queue, canonical events and rollups.

const (
	queryEnqueue = `
		INSERT INTO events_queue (
			id, site_id, event_type, path, user_id, timestamp, processed, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`

	// queryClaimBatch leases the oldest unprocessed entries in one statement.
	// SKIP LOCKED keeps concurrent claimers from blocking on, or double
	// claiming, rows another pass is leasing right now.
	queryClaimBatch = `
		UPDATE events_queue AS q
		SET claimed_until = $2
		FROM (
			SELECT id
			FROM events_queue
			WHERE processed = FALSE
			  AND (claimed_until IS NULL OR claimed_until < $1)
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		) AS picked
		WHERE q.id = picked.id
		RETURNING q.id, q.site_id, q.event_type, q.path, q.user_id, q.timestamp, q.processed, q.created_at
	`

	queryMarkProcessed = `
		UPDATE events_queue
		SET processed = TRUE, claimed_until = NULL
		WHERE id = ANY($1)
	`

	queryReleaseClaim = `
		UPDATE events_queue
		SET claimed_until = NULL
		WHERE id = ANY($1) AND processed = FALSE
	`

	queryQueueStatus = `
		SELECT COUNT(*), MIN(created_at)
		FROM events_queue
		WHERE processed = FALSE
	`

	// queryInsertEvents writes a whole batch from parallel arrays.
	// Timestamps travel as RFC 3339 text to keep pq.Array on plain strings.
	queryInsertEvents = `
		INSERT INTO events (id, site_id, event_type, path, user_id, timestamp, created_at)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[], $5::text[],
			$6::timestamptz[], $7::timestamptz[]
		)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`

	// queryInsertDayUsers expects $3 sorted so concurrent folds of one day
	// take the user key locks in the same order.
	queryInsertDayUsers = `
		INSERT INTO daily_stat_users (site_id, date, user_id)
		SELECT $1, $2, unnest($3::text[])
		ON CONFLICT (site_id, date, user_id) DO NOTHING
	`

	queryEnsureDailyStat = `
		INSERT INTO daily_stats (site_id, date, total_views, unique_users, path_stats, last_updated)
		VALUES ($1, $2, 0, 0, '[]'::jsonb, $3)
		ON CONFLICT (site_id, date) DO NOTHING
	`

	querySelectDailyStatForUpdate = `
		SELECT site_id, date, total_views, unique_users, path_stats, last_updated
		FROM daily_stats
		WHERE site_id = $1 AND date = $2
		FOR UPDATE
	`

	queryUpsertDailyStat = `
		INSERT INTO daily_stats (site_id, date, total_views, unique_users, path_stats, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (site_id, date)
		DO UPDATE SET
			total_views  = EXCLUDED.total_views,
			unique_users = EXCLUDED.unique_users,
			path_stats   = EXCLUDED.path_stats,
			last_updated = EXCLUDED.last_updated
	`

	queryGetDailyStat = `
		SELECT site_id, date, total_views, unique_users, path_stats, last_updated
		FROM daily_stats
		WHERE site_id = $1 AND date = $2
	`

	queryListDailyStats = `
		SELECT site_id, date, total_views, unique_users, path_stats, last_updated
		FROM daily_stats
		WHERE site_id = $1
		ORDER BY date DESC
	`
)
