package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// memoryDashboardRepo evaluates the dashboard aggregates over in-memory marks
// and counts how many queries a snapshot costs.
type memoryDashboardRepo struct {
	students int
	marks    []float64
	queries  int
	err      error
}

func (r *memoryDashboardRepo) Totals(ctx context.Context) (*models.DashboardTotals, error) {
	r.queries++
	if r.err != nil {
		return nil, r.err
	}
	totals := &models.DashboardTotals{TotalStudents: r.students, TotalMarks: len(r.marks)}
	if len(r.marks) == 0 {
		return totals, nil
	}
	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, m := range r.marks {
		sum += m
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	totals.AverageMark = sql.NullFloat64{Float64: sum / float64(len(r.marks)), Valid: true}
	totals.MinMark = sql.NullFloat64{Float64: lo, Valid: true}
	totals.MaxMark = sql.NullFloat64{Float64: hi, Valid: true}
	return totals, nil
}

func (r *memoryDashboardRepo) RecentMarks(ctx context.Context, limit int) ([]models.MarkDetail, error) {
	r.queries++
	var out []models.MarkDetail
	for i := len(r.marks) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, models.MarkDetail{Mark: models.Mark{ID: int64(i + 1), Mark: r.marks[i]}, StudentFirstName: "Ada", StudentLastName: "Lovelace"})
	}
	return out, nil
}

func (r *memoryDashboardRepo) CourseSummaries(ctx context.Context) ([]models.CourseMarkSummary, error) {
	r.queries++
	return nil, nil
}

type memoryCache struct {
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.items[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	removed := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			removed++
		}
	}
	return removed, nil
}

func TestDashboardSnapshotEmptyStoreDefaultsToZero(t *testing.T) {
	repo := &memoryDashboardRepo{}
	svc := NewDashboardService(repo, nil, 0, nil)

	snap, hit, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, snap.TotalStudents)
	assert.Equal(t, 0, snap.TotalMarks)
	assert.Equal(t, 0.0, snap.AverageMark)
	assert.Equal(t, 0.0, snap.MaxMark)
	assert.Equal(t, 0.0, snap.MinMark)
	assert.Empty(t, snap.RecentMarks)
}

func TestDashboardSnapshotAggregates(t *testing.T) {
	repo := &memoryDashboardRepo{students: 2, marks: []float64{70, 85, 90}}
	svc := NewDashboardService(repo, nil, 0, nil)

	snap, _, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.TotalStudents)
	assert.Equal(t, 3, snap.TotalMarks)
	assert.Equal(t, 81.67, snap.AverageMark)
	assert.Equal(t, 90.0, snap.MaxMark)
	assert.Equal(t, 70.0, snap.MinMark)
	require.Len(t, snap.RecentMarks, 3)
	assert.Equal(t, "Ada Lovelace", snap.RecentMarks[0].StudentName)
	assert.Equal(t, 90.0, snap.RecentMarks[0].Mark)
}

func TestDashboardSnapshotQueryCountIsConstant(t *testing.T) {
	for _, n := range []int{0, 1, 500} {
		marks := make([]float64, n)
		for i := range marks {
			marks[i] = float64(i % 101)
		}
		repo := &memoryDashboardRepo{marks: marks}
		_, _, err := NewDashboardService(repo, nil, 0, nil).Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, repo.queries, "marks=%d", n)
	}
}

func TestDashboardSnapshotMatchesAggregatesProperty(t *testing.T) {
	property := func(raw []uint16) bool {
		marks := make([]float64, len(raw))
		for i, v := range raw {
			marks[i] = float64(v%10001) / 100
		}
		snap, _, err := NewDashboardService(&memoryDashboardRepo{marks: marks}, nil, 0, nil).Snapshot(context.Background())
		if err != nil || snap.TotalMarks != len(marks) {
			return false
		}
		if len(marks) == 0 {
			return snap.AverageMark == 0 && snap.MaxMark == 0 && snap.MinMark == 0
		}
		sum, lo, hi := 0.0, marks[0], marks[0]
		for _, m := range marks {
			sum += m
			lo = math.Min(lo, m)
			hi = math.Max(hi, m)
		}
		return snap.MinMark == lo && snap.MaxMark == hi &&
			math.Abs(snap.AverageMark-sum/float64(len(marks))) <= 0.005+1e-9 &&
			snap.MinMark <= snap.AverageMark+0.005 && snap.AverageMark <= snap.MaxMark+0.005
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestDashboardSnapshotStoreErrorIsInternal(t *testing.T) {
	svc := NewDashboardService(&memoryDashboardRepo{err: errors.New("db down")}, nil, 0, nil)

	_, _, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestDashboardSnapshotCacheHitAndInvalidate(t *testing.T) {
	repo := &memoryDashboardRepo{students: 1, marks: []float64{50}}
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, time.Minute, nil)

	first, hit, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, store.sets)

	second, hit, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.AverageMark, second.AverageMark)
	assert.Equal(t, 3, repo.queries)

	svc.Invalidate(context.Background())
	_, hit, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 6, repo.queries)
}

