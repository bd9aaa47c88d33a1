package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samlatif/network/internal/types"
	"golang.org/x/sync/errgroup"
)

// GetCVRows loads every stored CV section of a user. Sections are loaded
// concurrently; any failure fails the whole read.
func (db *DB) GetCVRows(ctx context.Context, userID uuid.UUID) (*CVRows, error) {
	cv := &CVRows{}
	var (
		jobIDs  []uuid.UUID
		bullets map[uuid.UUID][]string
		stacks  map[uuid.UUID][]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cv.TechRows, err = queryRows(gctx, db, "tech rows",
			`SELECT category, items, years FROM cv_tech_rows WHERE user_id = $1 ORDER BY sort_order`,
			userID, func(row pgx.Rows) (types.TechRow, error) {
				var r types.TechRow
				return r, row.Scan(&r.Category, &r.Items, &r.Years)
			})
		return err
	})
	g.Go(func() error {
		var err error
		cv.OverviewStats, err = queryRows(gctx, db, "overview stats",
			`SELECT value, label FROM cv_overview_stats WHERE user_id = $1 ORDER BY sort_order`,
			userID, func(row pgx.Rows) (types.OverviewStat, error) {
				var s types.OverviewStat
				return s, row.Scan(&s.Value, &s.Label)
			})
		return err
	})
	g.Go(func() error {
		var err error
		cv.Education, err = queryRows(gctx, db, "education",
			`SELECT degree, institution, period, grade, note FROM cv_education
			 WHERE user_id = $1 ORDER BY sort_order`,
			userID, func(row pgx.Rows) (types.EducationEntry, error) {
				var e types.EducationEntry
				return e, row.Scan(&e.Degree, &e.Institution, &e.Period, &e.Grade, &e.Note)
			})
		return err
	})
	g.Go(func() error {
		var err error
		cv.Skills, err = queryRows(gctx, db, "skills",
			`SELECT name, category FROM cv_skills WHERE user_id = $1 ORDER BY sort_order`,
			userID, func(row pgx.Rows) (types.SkillTag, error) {
				var s types.SkillTag
				return s, row.Scan(&s.Name, &s.Category)
			})
		return err
	})
	g.Go(func() error {
		type jobRow struct {
			id  uuid.UUID
			job types.Job
		}
		rows, err := queryRows(gctx, db, "jobs",
			`SELECT id, company, date_range, title, description FROM cv_jobs
			 WHERE user_id = $1 ORDER BY sort_order`,
			userID, func(row pgx.Rows) (jobRow, error) {
				var j jobRow
				return j, row.Scan(&j.id, &j.job.Company, &j.job.DateRange, &j.job.Title, &j.job.Description)
			})
		if err != nil {
			return err
		}
		for _, r := range rows {
			jobIDs = append(jobIDs, r.id)
			cv.Jobs = append(cv.Jobs, r.job)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bullets, err = db.queryJobChildren(gctx,
			`SELECT b.job_id, b.content FROM cv_job_bullets b JOIN cv_jobs j ON j.id = b.job_id
			 WHERE j.user_id = $1 ORDER BY b.sort_order`, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stacks, err = db.queryJobChildren(gctx,
			`SELECT s.job_id, s.label FROM cv_job_stack_items s JOIN cv_jobs j ON j.id = s.job_id
			 WHERE j.user_id = $1 ORDER BY s.sort_order`, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, id := range jobIDs {
		cv.Jobs[i].Bullets = nonNil(bullets[id])
		cv.Jobs[i].Stack = nonNil(stacks[id])
	}
	return cv, nil
}

func queryRows[T any](ctx context.Context, db *DB, what, sql string, userID uuid.UUID, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := db.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv %s: %w", what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cv %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cv %s: %w", what, err)
	}
	return out, nil
}

func (db *DB) queryJobChildren(ctx context.Context, sql string, userID uuid.UUID) (map[uuid.UUID][]string, error) {
	rows, err := db.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv job details: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]string)
	for rows.Next() {
		var jobID uuid.UUID
		var value string
		if err := rows.Scan(&jobID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cv job detail: %w", err)
		}
		out[jobID] = append(out[jobID], value)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ReplaceTechRows replaces a user's tech rows, keeping the given order
func (db *DB) ReplaceTechRows(ctx context.Context, userID uuid.UUID, rows []types.TechRow) error {
	return db.inTx(ctx, "tech rows", func(tx pgx.Tx) error {
		return replaceTechRows(ctx, tx, userID, rows)
	})
}

// ReplaceOverviewStats replaces a user's overview stats, keeping the given order
func (db *DB) ReplaceOverviewStats(ctx context.Context, userID uuid.UUID, stats []types.OverviewStat) error {
	return db.inTx(ctx, "overview stats", func(tx pgx.Tx) error {
		return replaceOverviewStats(ctx, tx, userID, stats)
	})
}

// ReplaceEducation replaces a user's education entries, keeping the given order
func (db *DB) ReplaceEducation(ctx context.Context, userID uuid.UUID, entries []types.EducationEntry) error {
	return db.inTx(ctx, "education", func(tx pgx.Tx) error {
		return replaceEducation(ctx, tx, userID, entries)
	})
}

// ReplaceCV replaces every stored CV section of a user with the dataset's
// tech rows, overview stats, education, skills and jobs.
func (db *DB) ReplaceCV(ctx context.Context, userID uuid.UUID, data *types.CVData) error {
	return db.inTx(ctx, "cv", func(tx pgx.Tx) error {
		if err := replaceTechRows(ctx, tx, userID, data.TechRows); err != nil {
			return err
		}
		if err := replaceOverviewStats(ctx, tx, userID, data.OverviewStats); err != nil {
			return err
		}
		if err := replaceEducation(ctx, tx, userID, data.Education); err != nil {
			return err
		}
		if err := replaceSkills(ctx, tx, userID, data.Skills); err != nil {
			return err
		}
		return replaceJobs(ctx, tx, userID, data.Jobs)
	})
}

func (db *DB) inTx(ctx context.Context, what string, fn func(pgx.Tx) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("failed to replace %s: %w", what, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func replaceTechRows(ctx context.Context, tx pgx.Tx, userID uuid.UUID, rows []types.TechRow) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cv_tech_rows WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, r := range rows {
		_, err := tx.Exec(ctx,
			`INSERT INTO cv_tech_rows (user_id, category, items, years, sort_order) VALUES ($1, $2, $3, $4, $5)`,
			userID, r.Category, r.Items, r.Years, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceOverviewStats(ctx context.Context, tx pgx.Tx, userID uuid.UUID, stats []types.OverviewStat) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cv_overview_stats WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, s := range stats {
		_, err := tx.Exec(ctx,
			`INSERT INTO cv_overview_stats (user_id, value, label, sort_order) VALUES ($1, $2, $3, $4)`,
			userID, s.Value, s.Label, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceEducation(ctx context.Context, tx pgx.Tx, userID uuid.UUID, entries []types.EducationEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cv_education WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO cv_education (user_id, degree, institution, period, grade, note, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			userID, e.Degree, e.Institution, e.Period, e.Grade, e.Note, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceSkills(ctx context.Context, tx pgx.Tx, userID uuid.UUID, skills []types.SkillTag) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cv_skills WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, s := range skills {
		_, err := tx.Exec(ctx,
			`INSERT INTO cv_skills (user_id, name, category, sort_order) VALUES ($1, $2, $3, $4)`,
			userID, s.Name, s.Category, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceJobs(ctx context.Context, tx pgx.Tx, userID uuid.UUID, jobs []types.Job) error {
	// Bullets and stack items cascade.
	if _, err := tx.Exec(ctx, `DELETE FROM cv_jobs WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, j := range jobs {
		var jobID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO cv_jobs (user_id, company, date_range, title, description, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			userID, j.Company, j.DateRange, j.Title, j.Description, i,
		).Scan(&jobID)
		if err != nil {
			return err
		}
		for k, bullet := range j.Bullets {
			_, err := tx.Exec(ctx,
				`INSERT INTO cv_job_bullets (job_id, content, sort_order) VALUES ($1, $2, $3)`,
				jobID, bullet, k)
			if err != nil {
				return err
			}
		}
		for k, label := range j.Stack {
			_, err := tx.Exec(ctx,
				`INSERT INTO cv_job_stack_items (job_id, label, sort_order) VALUES ($1, $2, $3)`,
				jobID, label, k)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
