// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartviz

import (
	"errors"
	"image"
	"testing"
	"time"

	"relaychart/annotstore"
	"relaychart/backtest"
	"relaychart/chartgroup"
	"relaychart/chartval"
	"relaychart/config"
	"relaychart/coords"
	"relaychart/mock"
	"relaychart/viewport"
	"relaychart/widgets"

	"gioui.org/layout"
	"gioui.org/op"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) List(string) ([]chartval.Annotation, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Replace(string, []chartval.Annotation) error {
	return errors.New("store unavailable")
}

func newTestStore(t *testing.T) *annotstore.Store {
	store, err := annotstore.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestResult(symbol string) *backtest.Result {
	c := mock.NewRandomWalkConfig()
	c.Symbol = symbol
	c.Bars = 200
	c.TradeEvery = 20
	return mock.NewRandomWalkResult(c)
}

func newTestView(store AnnotationStore) (*ChartView, *int) {
	invalidated := new(int)
	v := NewChartView(config.NewAppConfig(), widgets.NewDarkPlotTheme(), 1, store,
		func() { *invalidated++ }, zerolog.Nop())
	return v, invalidated
}

func layoutTestPlots(v *ChartView, now time.Time) {
	for _, p := range v.Plots() {
		var ops op.Ops
		gtx := layout.Context{Ops: &ops, Now: now}
		gtx.Constraints.Max = image.Pt(800, 400)
		p.InitializeFrame(gtx)
	}
}

func TestLoadShowsResultAndStoredAnnotations(t *testing.T) {
	store := newTestStore(t)
	r := newTestResult("SPY")
	level := chartval.NewLevelAnnotation(101.5)
	require.NoError(t, store.Save(r.Name(), level))
	v, _ := newTestView(store)

	v.Load(r)

	assert.Equal(t, r.RunId, v.RunId())
	assert.Equal(t, []chartval.Annotation{level}, v.Group().Annotations())
	assert.Len(t, v.Group().Axis(), 200)
	assert.Len(t, v.Group().Trades(), len(r.Trades))
	price := v.Plots()[pricePane].Pane().Series()
	if assert.Len(t, price, 2) {
		assert.Equal(t, "price", price[0].Name)
		assert.Equal(t, "SMA 20", price[1].Name)
	}
	assert.Len(t, v.Plots()[equityPane].Pane().Series(), 1)
	assert.Len(t, v.Plots()[drawdownPane].Pane().Series(), 1)
	assert.False(t, v.MessageField().Visible())
}

func TestAnnotationChangesAreStored(t *testing.T) {
	store := newTestStore(t)
	r := newTestResult("SPY")
	v, invalidated := newTestView(store)
	v.Load(r)

	trend := chartval.NewTrendAnnotation(
		chartval.DataPoint{Time: v.Group().Axis()[10], Price: 100},
		chartval.DataPoint{Time: v.Group().Axis()[50], Price: 110})
	v.Group().AddAnnotation(trend)
	stored, err := store.List(r.Name())
	require.NoError(t, err)
	assert.Equal(t, []chartval.Annotation{trend}, stored)
	assert.Positive(t, *invalidated)

	v.HandleAction(widgets.ToolbarDeleteLast)
	stored, err = store.List(r.Name())
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, v.Group().Annotations())

	// Nothing left to delete.
	v.HandleAction(widgets.ToolbarDeleteLast)
	assert.Empty(t, v.Group().Annotations())
}

func TestAnnotationsAreKeptPerDataset(t *testing.T) {
	store := newTestStore(t)
	spy := newTestResult("SPY")
	qqq := newTestResult("QQQ")
	v, _ := newTestView(store)

	v.Load(spy)
	v.Group().AddAnnotation(chartval.NewLevelAnnotation(100))
	v.Load(qqq)
	assert.Empty(t, v.Group().Annotations())
	v.Load(spy)
	assert.Len(t, v.Group().Annotations(), 1)
}

func TestLoadKeepsViewportOfSameDataset(t *testing.T) {
	v, _ := newTestView(newTestStore(t))
	r := newTestResult("SPY")
	v.Load(r)
	axis := v.Group().Axis()
	require.True(t, v.Group().ApplyViewport(viewport.ZoomIntent{Center: axis[100], Multiplier: 0.5}))
	zoomed := v.Group().Viewport()

	v.Load(newTestResult("SPY"))
	assert.Equal(t, zoomed, v.Group().Viewport())

	v.Load(newTestResult("QQQ"))
	assert.Equal(t, viewport.FullRange(), v.Group().Viewport())
}

func TestToolbarActions(t *testing.T) {
	v, _ := newTestView(newTestStore(t))
	v.Load(newTestResult("SPY"))
	axis := v.Group().Axis()
	v.Group().ApplyViewport(viewport.ZoomIntent{Center: axis[100], Multiplier: 0.5})

	v.HandleAction(widgets.ToolbarReset)
	assert.Equal(t, viewport.FullRange(), v.Group().Viewport())

	v.toolbar.SetTool(chartgroup.ToolLevel)
	v.HandleAction(widgets.ToolbarToolChanged)
	assert.Equal(t, chartgroup.ToolLevel, v.Group().Tool())
}

func TestMarkerClickShowsTrade(t *testing.T) {
	v, invalidated := newTestView(newTestStore(t))
	v.Load(newTestResult("SPY"))
	layoutTestPlots(v, time.Unix(1700000000, 0))

	price := v.Plots()[pricePane]
	projected := price.Pane().Markers()
	require.NotEmpty(t, projected)
	m := projected[0]
	x, ok := price.Mapper().DataToPixel(m.Time)
	require.True(t, ok)
	y, ok := price.Mapper().PriceToPixel(m.Value)
	require.True(t, ok)
	before := *invalidated

	price.Pane().Click(coords.Point{X: x, Y: y})

	assert.Contains(t, v.TradeField().Text(), "#1 BUY SPY")
	assert.Greater(t, *invalidated, before)

	v.CancelDraft()
	assert.Empty(t, v.TradeField().Text())
}

func TestCancelDraftKeepsTrade(t *testing.T) {
	v, _ := newTestView(newTestStore(t))
	v.Load(newTestResult("SPY"))
	layoutTestPlots(v, time.Unix(1700000000, 0))
	v.TradeField().SetTrade(v.Group().Trades()[0].Payload)

	v.toolbar.SetTool(chartgroup.ToolTrend)
	v.HandleAction(widgets.ToolbarToolChanged)
	v.Plots()[pricePane].Pane().Click(coords.Point{X: 200, Y: 100})
	_, ok := v.Group().Draft()
	require.True(t, ok)

	v.CancelDraft()
	_, ok = v.Group().Draft()
	assert.False(t, ok)
	assert.NotEmpty(t, v.TradeField().Text())
}

func TestStoreErrorsAreShown(t *testing.T) {
	v, _ := newTestView(failingStore{})

	v.Load(newTestResult("SPY"))
	assert.True(t, v.MessageField().Visible())
	assert.Empty(t, v.Group().Annotations())

	v.Group().AddAnnotation(chartval.NewLevelAnnotation(100))
	// The annotation is kept for this session.
	assert.Len(t, v.Group().Annotations(), 1)
}
