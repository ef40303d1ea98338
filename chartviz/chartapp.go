// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartviz

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"relaychart/backtest"
	"relaychart/cache"
	"relaychart/config"
	"relaychart/feed"
	"relaychart/logger"
	"relaychart/widgets"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/rs/zerolog"
	"github.com/zhangyunhao116/skipmap"
)

var defaultWindowSize = image.Point{X: 1280, Y: 900}

// ChartApp is the main window. Results arrive from the feed goroutine and are
// displayed by the UI goroutine with the next frame.
type ChartApp struct {
	win         *app.Window
	size        widgets.DpPoint
	config      config.Config
	appConfig   config.AppConfig
	store       AnnotationStore
	resultCache cache.ResultCache
	// Received results by arrival, only the most recent one is displayed.
	pending     *skipmap.Int64Map[*backtest.Result]
	seq         atomic.Int64
	view        *ChartView
	matTheme    *material.Theme
	plotTheme   *widgets.PlotTheme
	terminateWg sync.WaitGroup
	log         zerolog.Logger
}

func NewChartApp(c config.Config, store AnnotationStore, resultCache cache.ResultCache, log zerolog.Logger) *ChartApp {
	return &ChartApp{
		config:      c,
		store:       store,
		resultCache: resultCache,
		pending:     skipmap.NewInt64[*backtest.Result](),
		log:         log,
	}
}

// Initialize loads the configuration. The initial result is displayed until
// the feed delivers a newer one.
func (a *ChartApp) Initialize(initial *backtest.Result) error {
	err := a.reloadConfiguration()
	if err != nil {
		return err
	}
	if initial != nil {
		a.receive(initial)
	}
	return nil
}

func (a *ChartApp) reloadConfiguration() error {
	appConfig, err := a.config.Copy()
	if err != nil {
		return err
	}
	a.appConfig = appConfig
	a.matTheme, a.plotTheme = widgets.NewThemes(appConfig.LightTheme)
	a.size.X = unit.Dp(appConfig.WindowConfig.Size.X)
	a.size.Y = unit.Dp(appConfig.WindowConfig.Size.Y)
	return nil
}

func (a *ChartApp) saveConfiguration() error {
	appConfig, err := a.config.Lock()
	if err != nil {
		return err
	}
	appConfig.WindowConfig.Size.X = int(a.size.X)
	appConfig.WindowConfig.Size.Y = int(a.size.Y)
	return a.config.Unlock(appConfig)
}

// receive queues a result for display. Safe for concurrent use.
func (a *ChartApp) receive(r *backtest.Result) {
	a.pending.Store(a.seq.Add(1), r)
}

// takeLatest returns the most recently received result and drops older ones.
func (a *ChartApp) takeLatest() *backtest.Result {
	var latest *backtest.Result
	a.pending.Range(func(seq int64, r *backtest.Result) bool {
		latest = r
		a.pending.Delete(seq)
		return true
	})
	return latest
}

func (a *ChartApp) handleFeedResults(response <-chan *backtest.Result) {
	defer a.terminateWg.Done()
	for r := range response {
		a.receive(r)
		if a.resultCache != nil {
			if err := a.resultCache.StoreResult(r); err != nil {
				a.log.Warn().Err(err).Str("run", r.RunId).Msg("error caching result")
			}
		}
		a.Invalidate()
	}
}

func (a *ChartApp) startFeed(ctx context.Context) {
	fc := a.appConfig.FeedConfig
	if len(fc.Url) == 0 {
		a.log.Info().Msg("no feed url configured, live results are disabled")
		return
	}
	client := feed.NewClient(feed.Config{
		Url:              fc.Url,
		RunId:            fc.RunId,
		MinReconnect:     time.Duration(fc.MinReconnectMs) * time.Millisecond,
		MaxReconnect:     time.Duration(fc.MaxReconnectMs) * time.Millisecond,
		HandshakeTimeout: time.Duration(fc.HandshakeTimeoutSeconds) * time.Second,
	}, logger.Component(a.log, "feed"))
	response := make(chan *backtest.Result, 4)
	go client.Run(ctx, response)
	a.terminateWg.Add(1)
	go a.handleFeedResults(response)
}

func (a *ChartApp) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.createWindow()
	a.startFeed(ctx)
	err := a.handleEvents()
	if err != nil {
		a.log.Error().Err(err).Msg("terminating with error")
	}
	cancel()
	a.terminate()
}

func (a *ChartApp) Invalidate() {
	if a.win != nil {
		a.win.Invalidate()
	}
}

func (a *ChartApp) createWindow() {
	size := a.size
	if size.X == 0 || size.Y == 0 {
		size.X = unit.Dp(defaultWindowSize.X)
		size.Y = unit.Dp(defaultWindowSize.Y)
	}
	a.win = app.NewWindow(
		app.Title(a.config.GetAppName()),
		app.Size(size.X, size.Y),
	)
}

// The view is created with the first frame, when the screen density is known.
func (a *ChartApp) frameView(gtx layout.Context) *ChartView {
	if a.view == nil {
		a.view = NewChartView(a.appConfig, a.plotTheme, gtx.Metric.PxPerDp, a.store, a.Invalidate,
			logger.Component(a.log, "chart"))
	}
	if r := a.takeLatest(); r != nil {
		a.view.Load(r)
	}
	return a.view
}

func (a *ChartApp) handleKeys(gtx layout.Context, view *ChartView) {
	for _, e := range gtx.Events(a) {
		if e, ok := e.(key.Event); ok && e.State == key.Press && e.Name == key.NameEscape {
			view.CancelDraft()
		}
	}
	key.InputOp{Tag: a, Keys: key.Set(key.NameEscape)}.Add(gtx.Ops)
}

func (a *ChartApp) handleEvents() error {
	var ops op.Ops

	for {
		switch e := a.win.NextEvent().(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			a.size.X = gtx.Metric.PxToDp(e.Size.X)
			a.size.Y = gtx.Metric.PxToDp(e.Size.Y)
			paint.Fill(gtx.Ops, a.matTheme.Bg)
			view := a.frameView(gtx)
			a.handleKeys(gtx, view)
			view.Layout(gtx, a.matTheme, a.plotTheme)
			if deadline, ok := view.Group().NextDeadline(); ok {
				op.InvalidateOp{At: deadline}.Add(gtx.Ops)
			}
			e.Frame(gtx.Ops)
		case system.DestroyEvent:
			return e.Err
		}
	}
}

func (a *ChartApp) terminate() {
	if a.view != nil {
		a.view.Group().Close()
	}
	err := a.saveConfiguration()
	if err != nil {
		a.log.Error().Err(err).Msg("error saving configuration")
	}
	a.terminateWg.Wait()
}
