package aliases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeLister struct {
	rows  []models.ItemAlias
	err   error
	calls int
}

func (f *fakeLister) ListItemAliases(ctx context.Context) ([]models.ItemAlias, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func newTestStore(lister *fakeLister, ttl time.Duration) (*Store, *time.Time) {
	s := NewStore(lister, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), ttl)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStoreGetCachesWithinTTL(t *testing.T) {
	lister := &fakeLister{rows: []models.ItemAlias{{Alias: "마고", ItemNo: "W-1"}}}
	s, _ := newTestStore(lister, time.Minute)

	c1, err := s.Get(context.Background())
	require.NoError(t, err)
	c2, err := s.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, lister.calls)
}

func TestStoreGetReloadsAfterTTL(t *testing.T) {
	lister := &fakeLister{rows: []models.ItemAlias{{Alias: "마고", ItemNo: "W-1"}}}
	s, now := newTestStore(lister, time.Minute)

	_, err := s.Get(context.Background())
	require.NoError(t, err)

	*now = now.Add(61 * time.Second)
	_, err = s.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, lister.calls)
}

func TestStoreServesStaleOnReloadFailure(t *testing.T) {
	lister := &fakeLister{rows: []models.ItemAlias{{Alias: "마고", ItemNo: "W-1"}}}
	s, now := newTestStore(lister, time.Minute)

	c1, err := s.Get(context.Background())
	require.NoError(t, err)

	lister.err = errors.New("db down")
	*now = now.Add(2 * time.Minute)

	c2, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}

func TestStoreFailsWithoutSnapshot(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	s, _ := newTestStore(lister, time.Minute)

	_, err := s.Get(context.Background())
	assert.Error(t, err)
}

func TestStoreInvalidate(t *testing.T) {
	lister := &fakeLister{rows: []models.ItemAlias{{Alias: "마고", ItemNo: "W-1"}}}
	s, _ := newTestStore(lister, time.Hour)

	_, err := s.Get(context.Background())
	require.NoError(t, err)

	s.Invalidate()
	_, err = s.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, lister.calls)
}
