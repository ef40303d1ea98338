// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cache

import (
	"relaychart/backtest"
)

// ResultCache keeps the most recently displayed backtest result, so that the chart
// can be shown before the backend is reachable.
type ResultCache interface {
	LastResult() (*backtest.Result, bool)
	StoreResult(r *backtest.Result) error
}
