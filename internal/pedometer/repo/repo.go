package repo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/2beens/pedometer/internal/pedometer/activity"
	"github.com/2beens/pedometer/internal/telemetry/tracing"
	"github.com/2beens/pedometer/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEntryExists     = errors.New("history entry already exists")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrProfileNotFound = errors.New("user profile not found")
)

//go:embed schema.sql
var schemaSQL string

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureSchema creates the tables if they do not exist yet.
func (r *Repo) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.ensure-schema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repo) ListEntries(ctx context.Context) (_ []activity.HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.list-entries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, date, start_time, end_time, steps, distance, kcal, user_name
		FROM pedometer_history_entry
		ORDER BY date DESC, start_time DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	entries, err := rows2entries(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries.count", len(entries)))

	return entries, nil
}

func (r *Repo) AddEntry(ctx context.Context, entry activity.HistoryEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.add-entry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("entry.id", entry.ID),
		attribute.String("entry.date", entry.Date),
	)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO pedometer_history_entry
				(id, date, start_time, end_time, steps, distance, kcal, user_name)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		entry.ID, entry.Date, entry.StartTime, entry.EndTime,
		entry.Steps, entry.Distance, entry.Kcal, entry.UserName,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("%w: %s", ErrEntryExists, entry.ID)
		}
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

// ListGoals returns all goals, newest first.
func (r *Repo) ListGoals(ctx context.Context) (_ []activity.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.list-goals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, target_type, target_value, period_type, created_at, is_active
		FROM pedometer_goal
		ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("goals.count", len(goals)))

	return goals, nil
}

func (r *Repo) GetGoal(ctx context.Context, id string) (_ *activity.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.get-goal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, target_type, target_value, period_type, created_at, is_active
		FROM pedometer_goal
		WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, ErrGoalNotFound
	}

	return &goals[0], nil
}

// AddGoal stores the goal and, when it is active, deactivates the previously
// active goals of the same metric in the same transaction.
func (r *Repo) AddGoal(ctx context.Context, goal activity.Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.add-goal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("goal.id", goal.ID),
		attribute.String("goal.metric", string(goal.Metric)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if goal.IsActive {
		tag, err := tx.Exec(
			ctx,
			`UPDATE pedometer_goal SET is_active = FALSE WHERE target_type = $1 AND is_active;`,
			string(goal.Metric),
		)
		if err != nil {
			return fmt.Errorf("deactivate goals: %w", err)
		}
		span.SetAttributes(attribute.Int64("goals.deactivated", tag.RowsAffected()))
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO pedometer_goal
				(id, target_type, target_value, period_type, created_at, is_active)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		goal.ID, string(goal.Metric), goal.TargetValue, string(goal.Period), goal.CreatedAt, goal.IsActive,
	); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	return nil
}

func (r *Repo) GetProfile(ctx context.Context) (_ *activity.UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.get-profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var profile activity.UserProfile
	err = r.db.QueryRow(
		ctx,
		`SELECT name, weight_kg FROM pedometer_user_profile WHERE id = 1;`,
	).Scan(&profile.Name, &profile.WeightKg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}

	return &profile, nil
}

// SaveProfile creates or replaces the single user profile.
func (r *Repo) SaveProfile(ctx context.Context, profile activity.UserProfile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pedometer.save-profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO pedometer_user_profile (id, name, weight_kg)
				VALUES (1, $1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, weight_kg = EXCLUDED.weight_kg;`,
		profile.Name, profile.WeightKg,
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func rows2entries(rows pgx.Rows) ([]activity.HistoryEntry, error) {
	var entries []activity.HistoryEntry
	for rows.Next() {
		var e activity.HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.Date, &e.StartTime, &e.EndTime,
			&e.Steps, &e.Distance, &e.Kcal, &e.UserName,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

func rows2goals(rows pgx.Rows) ([]activity.Goal, error) {
	var goals []activity.Goal
	for rows.Next() {
		var (
			g              activity.Goal
			metric, period string
		)
		if err := rows.Scan(&g.ID, &metric, &g.TargetValue, &period, &g.CreatedAt, &g.IsActive); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		g.Metric = activity.Metric(metric)
		g.Period = activity.Period(period)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return goals, nil
}
