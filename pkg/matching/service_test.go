package matching

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/aliases"
	"github.com/Ramsey-B/fern/pkg/codes"
	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeSource struct {
	catalog []models.CatalogItem
	english []models.EnglishName
}

func (f *fakeSource) SearchCatalog(ctx context.Context, tokens []string, matchAll bool, limit int) ([]models.CatalogItem, error) {
	var out []models.CatalogItem
	for _, item := range f.catalog {
		name := strings.ToLower(item.ItemName)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(name, strings.ToLower(tok)) {
				hits++
			}
		}
		if (matchAll && hits == len(tokens)) || (!matchAll && hits > 0) {
			out = append(out, item)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSource) SearchEnglishNames(ctx context.Context, term string, limit int) ([]models.EnglishName, error) {
	var out []models.EnglishName
	for _, row := range f.english {
		if strings.Contains(strings.ToLower(row.EnglishName), strings.ToLower(term)) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeAliasLister struct {
	rows []models.ItemAlias
}

func (f *fakeAliasLister) ListItemAliases(ctx context.Context) ([]models.ItemAlias, error) {
	return f.rows, nil
}

type fakeBonuses struct {
	byKey map[string]map[string]float64
}

func (f *fakeBonuses) SelectionBonuses(ctx context.Context, searchKey string) (map[string]float64, error) {
	return f.byKey[searchKey], nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestService(source *fakeSource, aliasRows []models.ItemAlias) *Service {
	logger := testLogger()
	store := aliases.NewStore(&fakeAliasLister{rows: aliasRows}, logger, time.Minute)
	gen := NewGenerator(source, logger, 80)
	svc := NewService(logger, store, gen, &fakeBonuses{}, testPolicy(), 8)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestResolveLineExactAliasBypass(t *testing.T) {
	source := &fakeSource{catalog: []models.CatalogItem{
		{ItemNo: "110001", ItemName: "뵈브 암발 크레망 드 부르고뉴 브뤼"},
		{ItemNo: "110002", ItemName: "뵈브 클리코 옐로우 라벨"},
	}}
	svc := newTestService(source, []models.ItemAlias{
		{Alias: "뵈브 암발", ItemNo: "110001", ItemName: "뵈브 암발 크레망 드 부르고뉴 브뤼"},
	})

	res := svc.ResolveLine(context.Background(), models.OrderLine{Raw: "뵈브 암발 3병", Name: "뵈브 암발", Qty: 3}, "C100", nil, nil)

	assert.True(t, res.Resolved)
	assert.Equal(t, "110001", res.ItemNo)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, models.MethodExactAlias, res.Method)
	assert.Equal(t, 3, res.Qty)
}

func TestResolveLineCodeInHistory(t *testing.T) {
	svc := newTestService(&fakeSource{}, nil)

	idx := codes.NewIndex()
	idx.Add("0330/07", "리델 레드와인 잔 RD 0330/07", true)

	res := svc.ResolveLine(context.Background(), models.OrderLine{Raw: "330/07 2개", Name: "330/07", Qty: 2, Code: "330/07"}, "C100", nil, idx)

	assert.True(t, res.Resolved)
	assert.Equal(t, "0330/07", res.ItemNo)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, models.MethodExactCode, res.Method)
}

func TestResolveLineCodeCatalogOnly(t *testing.T) {
	svc := newTestService(&fakeSource{}, nil)

	idx := codes.NewIndex()
	idx.Add("0330/07", "리델 레드와인 잔 RD 0330/07", false)

	res := svc.ResolveLine(context.Background(), models.OrderLine{Raw: "330/07", Name: "330/07", Qty: 1, Code: "330/07"}, "C100", nil, idx)

	assert.False(t, res.Resolved, "catalog-only code hits are surfaced, not confirmed")
	assert.True(t, res.NotInClientHistory)
	assert.Equal(t, "0330/07", res.ItemNo)
	assert.InDelta(t, 0.95, res.Score, 1e-9)
}

func TestResolveLineBarePrefix(t *testing.T) {
	svc := newTestService(&fakeSource{}, nil)

	idx := codes.NewIndex()
	idx.Add("0330/07", "리델 레드와인 잔", true)
	idx.Add("0330/15", "리델 화이트와인 잔", false)

	// Bare prefix with exactly one history hit confirms it.
	res := svc.ResolveLine(context.Background(), models.OrderLine{Raw: "330", Name: "330", Qty: 1}, "C100", nil, idx)
	assert.True(t, res.Resolved)
	assert.Equal(t, "0330/07", res.ItemNo)
	assert.Equal(t, models.MethodCodePrefix, res.Method)
}

func TestResolveLineFuzzyHistory(t *testing.T) {
	source := &fakeSource{catalog: []models.CatalogItem{
		{ItemNo: "993301", ItemName: "메종 로쉬 벨렌, 샤블리 비에유비뉴"},
		{ItemNo: "112301", ItemName: "샤또 마고"},
	}}
	svc := newTestService(source, nil)

	history := []models.HistoryItem{
		{ItemNo: "993301", ItemName: "메종 로쉬 벨렌, 샤블리 비에유비뉴"},
		{ItemNo: "112301", ItemName: "샤또 마고"},
	}

	res := svc.ResolveLine(context.Background(), models.OrderLine{Raw: "샤블리 6병", Name: "샤블리", Qty: 6}, "C100", history, nil)

	assert.True(t, res.Resolved)
	assert.Equal(t, "993301", res.ItemNo)
	assert.Equal(t, models.MethodFuzzy, res.Method)
	assert.Greater(t, res.Score, 0.6)
	require.NotEmpty(t, res.Candidates)
	assert.True(t, res.Candidates[0].InHistory)
}

func TestResolveLineFuzzyLearnedSpelling(t *testing.T) {
	source := &fakeSource{catalog: []models.CatalogItem{
		{ItemNo: "160001", ItemName: "프리미티보 디 만두리아"},
	}}
	// "만두와인" is a learned nickname that shares almost nothing with the
	// catalog name; similarity against the alias text carries the match.
	svc := newTestService(source, []models.ItemAlias{
		{Alias: "만두와인", ItemNo: "160001", ItemName: "프리미티보 디 만두리아"},
	})

	history := []models.HistoryItem{
		{ItemNo: "160001", ItemName: "프리미티보 디 만두리아"},
	}

	res := svc.ResolveLine(context.Background(), models.OrderLine{Raw: "만두와인 레드 3병", Name: "만두와인 레드", Qty: 3}, "C100", history, nil)

	assert.True(t, res.Resolved)
	assert.Equal(t, "160001", res.ItemNo)
	assert.Equal(t, models.MethodFuzzy, res.Method)
	assert.Greater(t, res.Score, 0.7)
}

func TestResolveLineEmpty(t *testing.T) {
	svc := newTestService(&fakeSource{}, nil)

	res := svc.ResolveLine(context.Background(), models.OrderLine{}, "C100", nil, nil)
	assert.False(t, res.Resolved)
	assert.Empty(t, res.Candidates)
}

func TestResolveGlassLineDice(t *testing.T) {
	source := &fakeSource{catalog: []models.CatalogItem{
		{ItemNo: "0330/07", ItemName: "리델 베리타스 레드와인", IsGlass: true},
		{ItemNo: "0425/00", ItemName: "리델 샴페인 플루트", IsGlass: true},
	}}
	svc := newTestService(source, nil)

	history := []models.HistoryItem{
		{ItemNo: "0330/07", ItemName: "리델 베리타스 레드와인"},
	}

	res := svc.ResolveGlassLine(context.Background(), models.OrderLine{Raw: "베리타스 레드와인 2개", Name: "베리타스 레드와인", Qty: 2}, "C100", history, nil)

	assert.True(t, res.Resolved)
	assert.Equal(t, "0330/07", res.ItemNo)
	for _, c := range res.Candidates {
		assert.Zero(t, c.Signals.VintageBonus, "glass scoring carries no vintage terms")
	}
}
