package learning

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeAliasWriter struct {
	upserts []models.ItemAlias
}

func (f *fakeAliasWriter) UpsertItemAlias(ctx context.Context, alias models.ItemAlias) error {
	f.upserts = append(f.upserts, alias)
	return nil
}

type fakeSelectionStore struct {
	upserts map[string][]string
	rows    map[string][]models.SearchLearning
}

func (f *fakeSelectionStore) UpsertSelection(ctx context.Context, searchKey, itemNo string) error {
	if f.upserts == nil {
		f.upserts = make(map[string][]string)
	}
	f.upserts[searchKey] = append(f.upserts[searchKey], itemNo)
	return nil
}

func (f *fakeSelectionStore) ListByKey(ctx context.Context, searchKey string) ([]models.SearchLearning, error) {
	return f.rows[searchKey], nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate() { f.calls++ }

func newTestService() (*Service, *fakeAliasWriter, *fakeSelectionStore, *fakeInvalidator) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	aliasWriter := &fakeAliasWriter{}
	selections := &fakeSelectionStore{}
	inv := &fakeInvalidator{}
	return NewService(logger, aliasWriter, selections, inv, nil), aliasWriter, selections, inv
}

func TestConfirmAlias(t *testing.T) {
	svc, writer, _, inv := newTestService()

	err := svc.ConfirmAlias(context.Background(), models.ConfirmAliasRequest{
		Alias:    "  뵈브!! 암발  ",
		ItemNo:   "110001",
		ItemName: "뵈브 암발 크레망 드 부르고뉴 브뤼",
	})
	require.NoError(t, err)

	require.Len(t, writer.upserts, 1)
	assert.Equal(t, "뵈브 암발", writer.upserts[0].Alias, "alias stored loose-normalized")
	assert.Equal(t, "110001", writer.upserts[0].ItemNo)
	assert.Nil(t, writer.upserts[0].ClientCode)
	assert.Equal(t, 1, inv.calls, "snapshot invalidated so the next resolve sees the alias")
}

func TestConfirmAliasClientScoped(t *testing.T) {
	svc, writer, _, _ := newTestService()

	err := svc.ConfirmAlias(context.Background(), models.ConfirmAliasRequest{
		Alias:      "샤블리",
		ItemNo:     "993301",
		ClientCode: "C100",
	})
	require.NoError(t, err)
	require.Len(t, writer.upserts, 1)
	require.NotNil(t, writer.upserts[0].ClientCode)
	assert.Equal(t, "C100", *writer.upserts[0].ClientCode)
}

func TestConfirmAliasRejectsEmpty(t *testing.T) {
	svc, writer, _, _ := newTestService()

	assert.Error(t, svc.ConfirmAlias(context.Background(), models.ConfirmAliasRequest{Alias: "!!", ItemNo: "110001"}))
	assert.Error(t, svc.ConfirmAlias(context.Background(), models.ConfirmAliasRequest{Alias: "뵈브 암발"}))
	assert.Empty(t, writer.upserts)
}

func TestRecordSelection(t *testing.T) {
	svc, _, selections, _ := newTestService()

	err := svc.RecordSelection(context.Background(), models.RecordSelectionRequest{
		Query:  "샤또 마고 2병",
		ItemNo: "112301",
	})
	require.NoError(t, err)

	// The key strips quantity, spacing and punctuation.
	assert.Equal(t, []string{"112301"}, selections.upserts["샤또마고"])
}

func TestSelectionBonusesShortKeyGuard(t *testing.T) {
	svc, _, selections, _ := newTestService()
	selections.rows = map[string][]models.SearchLearning{
		"마고": {{SearchKey: "마고", ItemNo: "112301", HitCount: 10}},
	}

	bonuses, err := svc.SelectionBonuses(context.Background(), "마고")
	require.NoError(t, err)
	assert.Empty(t, bonuses, "keys under six characters carry no learning signal")
}

func TestSelectionBonuses(t *testing.T) {
	svc, _, selections, _ := newTestService()
	selections.rows = map[string][]models.SearchLearning{
		"모엣샹동브뤼임페리얼": {
			{ItemNo: "110010", HitCount: 1},
			{ItemNo: "110011", HitCount: 50},
		},
	}

	bonuses, err := svc.SelectionBonuses(context.Background(), "모엣샹동브뤼임페리얼")
	require.NoError(t, err)

	assert.InDelta(t, BonusForHits(1), bonuses["110010"], 1e-9)
	assert.Equal(t, 0.10, bonuses["110011"], "bonus is capped")
	assert.Greater(t, bonuses["110011"], bonuses["110010"])
}

func TestBonusForHits(t *testing.T) {
	assert.Zero(t, BonusForHits(0))
	assert.Zero(t, BonusForHits(-1))
	assert.Greater(t, BonusForHits(2), BonusForHits(1))
	assert.LessOrEqual(t, BonusForHits(1000), 0.10)
}
