// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartviz

import (
	"fmt"

	"relaychart/backtest"
	"relaychart/chartgroup"
	"relaychart/chartplot"
	"relaychart/chartval"
	"relaychart/config"
	"relaychart/widgets"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/rs/zerolog"
)

// AnnotationStore persists the annotations of a dataset.
type AnnotationStore interface {
	List(dataset string) ([]chartval.Annotation, error)
	Replace(dataset string, annotations []chartval.Annotation) error
}

// ChartView shows one backtest result in a price, an equity and a drawdown pane.
// All panes share one viewport and the annotations of the price pane.
// Not thread safe, all methods need to be called from the UI goroutine.
type ChartView struct {
	group        *chartgroup.Group
	plots        []*chartplot.Plot
	weights      []float32
	smaPeriods   []int
	store        AnnotationStore
	toolbar      *widgets.Toolbar
	tradeField   *widgets.TradeField
	messageField *widgets.MessageField
	dataset      backtest.Dataset
	runId        string
	invalidate   func()
	log          zerolog.Logger
	plotLayouts  []layout.FlexChild
}

const tradeFieldInset = unit.Dp(40)

const (
	pricePane = iota
	equityPane
	drawdownPane
)

// NewChartView creates the panes. pxPerDp is the screen density used for the
// engine tunables and the annotation styles.
func NewChartView(appConfig config.AppConfig, pth *widgets.PlotTheme, pxPerDp float32,
	store AnnotationStore, invalidate func(), log zerolog.Logger) *ChartView {
	v := &ChartView{
		weights:      appConfig.WindowConfig.PaneWeights(),
		smaPeriods:   appConfig.SmaPeriods,
		store:        store,
		toolbar:      widgets.NewToolbar(),
		tradeField:   widgets.NewTradeField(),
		messageField: widgets.NewMessageField(),
		invalidate:   invalidate,
		log:          log,
	}
	if v.invalidate == nil {
		v.invalidate = func() {}
	}
	v.group = chartgroup.NewGroup(
		appConfig.EngineConfig.ChartGroupConfig(float64(pxPerDp)),
		chartgroup.Callbacks{
			OnViewportChange:    v.viewportChanged,
			OnAnnotationsChange: v.annotationsChanged,
			OnMarkerActivated:   v.markerActivated,
		},
		log,
	)
	overlayTheme := pth.OverlayTheme(pxPerDp)
	v.plots = []*chartplot.Plot{
		chartplot.New(v.group, pth, chartgroup.PaneOptions{
			Name:        "price",
			Annotations: true,
			Markers:     true,
			Theme:       overlayTheme,
		}, pth.PriceColor, pth.SmaColor),
		chartplot.New(v.group, pth, chartgroup.PaneOptions{Name: "equity", Theme: overlayTheme}, pth.EquityColor),
		chartplot.New(v.group, pth, chartgroup.PaneOptions{Name: "drawdown", Theme: overlayTheme}, pth.DrawdownColor),
	}
	resizeCoalesce := appConfig.EngineConfig.ResizeCoalesce()
	for _, p := range v.plots {
		p.ResizeCoalesce = resizeCoalesce
		p.FormatX = v.formatX
	}
	return v
}

func (v *ChartView) Group() *chartgroup.Group {
	return v.group
}

func (v *ChartView) Plots() []*chartplot.Plot {
	return v.plots
}

// RunId returns the run id of the displayed result.
func (v *ChartView) RunId() string {
	return v.runId
}

func (v *ChartView) Dataset() backtest.Dataset {
	return v.dataset
}

func (v *ChartView) TradeField() *widgets.TradeField {
	return v.tradeField
}

func (v *ChartView) MessageField() *widgets.MessageField {
	return v.messageField
}

// Load displays a result and the stored annotations of its dataset.
// The viewport is kept if the result belongs to the same dataset.
func (v *ChartView) Load(r *backtest.Result) {
	d := r.Dataset()
	sameDataset := d.Name == v.dataset.Name
	v.dataset = d
	v.runId = r.RunId
	v.tradeField.Clear()

	v.group.SetData(d.Axis, d.Trades)
	price := []chartval.Series{d.Price}
	for _, periods := range v.smaPeriods {
		price = append(price, backtest.MovingAverage(d.Price, periods))
	}
	v.plots[pricePane].Pane().SetSeries(price...)
	v.plots[equityPane].Pane().SetSeries(d.Equity)
	v.plots[drawdownPane].Pane().SetSeries(d.Drawdown)
	if !sameDataset {
		v.group.ResetViewport()
	}

	annotations, err := v.store.List(d.Name)
	if err != nil {
		v.log.Error().Err(err).Str("dataset", d.Name).Msg("error loading annotations")
		v.messageField.Show(fmt.Sprintf("Annotations of %s could not be loaded.", d.Name))
		annotations = nil
	}
	v.group.SetAnnotations(annotations)
	v.log.Info().Str("run", r.RunId).Str("dataset", d.Name).Int("samples", d.Price.Len()).
		Int("trades", len(d.Trades)).Int("annotations", len(annotations)).Msg("result loaded")
}

func (v *ChartView) formatX(x float64) string {
	return backtest.FormatTimestamp(x, len(v.dataset.Axis) > 0)
}

func (v *ChartView) viewportChanged(start, end int) {
	v.log.Debug().Int("start", start).Int("end", end).Msg("viewport changed")
	v.invalidate()
}

func (v *ChartView) annotationsChanged(annotations []chartval.Annotation) {
	if len(v.dataset.Name) == 0 {
		return
	}
	if err := v.store.Replace(v.dataset.Name, annotations); err != nil {
		v.log.Error().Err(err).Str("dataset", v.dataset.Name).Msg("error saving annotations")
		v.messageField.Show("Annotations could not be saved.")
	}
	v.invalidate()
}

func (v *ChartView) markerActivated(trade chartval.TradePayload) {
	v.tradeField.SetTrade(trade)
	v.invalidate()
}

// HandleAction applies a toolbar action to the group.
func (v *ChartView) HandleAction(action widgets.ToolbarAction) {
	switch action {
	case widgets.ToolbarToolChanged:
		v.group.SetTool(v.toolbar.Tool())
	case widgets.ToolbarReset:
		v.group.ResetViewport()
	case widgets.ToolbarDeleteLast:
		annotations := v.group.Annotations()
		if len(annotations) > 0 {
			v.group.DeleteAnnotation(annotations[len(annotations)-1].Id)
		}
	}
}

// CancelDraft discards a trend line being placed, or else hides the trade info.
func (v *ChartView) CancelDraft() {
	if !v.group.CancelDraft() {
		v.tradeField.Clear()
	}
	v.invalidate()
}

func (v *ChartView) Layout(gtx layout.Context, th *material.Theme, pth *widgets.PlotTheme) layout.Dimensions {
	v.HandleAction(v.toolbar.Update(gtx))

	v.plotLayouts = v.plotLayouts[:0]
	v.plotLayouts = append(v.plotLayouts,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return v.toolbar.Layout(gtx, th, len(v.group.Annotations()) > 0)
		}),
		layout.Rigid(widgets.Divider(th, 0).Layout),
	)
	for i, p := range v.plots {
		p := p
		v.plotLayouts = append(v.plotLayouts, layout.Flexed(v.weights[i], func(gtx layout.Context) layout.Dimensions {
			// Input of a pane may move the shared viewport, the other panes follow with the next frame.
			p.InitializeFrame(gtx)
			return p.Layout(gtx, th)
		}))
	}

	return layout.Stack{Alignment: layout.NE}.Layout(gtx,
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx, v.plotLayouts...)
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			if len(v.tradeField.Text()) == 0 {
				return layout.Dimensions{}
			}
			return layout.UniformInset(tradeFieldInset).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return v.tradeField.Layout(gtx, th, pth)
			})
		}),
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			if !v.messageField.Visible() {
				return layout.Dimensions{}
			}
			return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return v.messageField.Layout(gtx, th, pth)
			})
		}),
	)
}
