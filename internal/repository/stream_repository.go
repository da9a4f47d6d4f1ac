package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

var streamListSpec = listSpec{
	from:          "FROM streams st",
	searchColumns: []string{"st.name"},
	filterColumns: map[string]string{"start_date": "st.start_date", "end_date": "st.end_date"},
	sortColumns: map[string]string{
		"id":         "st.id",
		"name":       "st.name",
		"start_date": "st.start_date",
		"end_date":   "st.end_date",
	},
	defaultSort: "st.start_date",
}

const streamColumns = "st.id, st.name, st.start_date, st.end_date"

// StreamRepository manages persistence for cohorts.
type StreamRepository struct {
	db *sqlx.DB
}

// NewStreamRepository constructs a StreamRepository.
func NewStreamRepository(db *sqlx.DB) *StreamRepository {
	return &StreamRepository{db: db}
}

// List returns streams matching the filter.
func (r *StreamRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Stream, int, error) {
	q := streamListSpec.build(filter)
	var items []models.Stream
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(streamColumns, streamListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list streams: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(streamListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count streams: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a stream.
func (r *StreamRepository) FindByID(ctx context.Context, id int64) (*models.Stream, error) {
	var item models.Stream
	query := fmt.Sprintf("SELECT %s FROM streams st WHERE st.id = $1", streamColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a stream.
func (r *StreamRepository) Create(ctx context.Context, stream *models.Stream) error {
	const query = `INSERT INTO streams (name, start_date, end_date) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, stream.Name, stream.StartDate, stream.EndDate).Scan(&stream.ID); err != nil {
		return fmt.Errorf("create stream: %w", err)
	}
	return nil
}

// Update overwrites a stream.
func (r *StreamRepository) Update(ctx context.Context, stream *models.Stream) error {
	const query = `UPDATE streams SET name = $1, start_date = $2, end_date = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, stream.Name, stream.StartDate, stream.EndDate, stream.ID)
	if err != nil {
		return fmt.Errorf("update stream: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a stream; students in it keep existing with stream_id set to NULL.
func (r *StreamRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM streams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stream: %w", err)
	}
	return expectAffected(res)
}
