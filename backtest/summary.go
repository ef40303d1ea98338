// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package backtest

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"relaychart/chartval"

	"github.com/ericlagergren/decimal"
	"github.com/olekukonko/tablewriter"
)

const tradeTimeFormat = "2006-01-02 15:04"

// WriteTradeTable prints all trades of a dataset with the realized PnL total.
func WriteTradeTable(w io.Writer, d Dataset) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Order", "Time", "Side", "Qty", "Price", "Commission", "Slippage", "PnL"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	total := new(decimal.Big)
	for _, m := range d.Trades {
		p := m.Payload
		table.Append([]string{
			strconv.FormatInt(p.OrderId, 10),
			FormatTimestamp(m.Timestamp, len(d.Axis) > 0),
			p.Side.String(),
			p.Quantity.String(),
			fmt.Sprintf("%f", chartval.PrepareFormattedPrice(p.Price)),
			fmt.Sprintf("%f", chartval.PrepareFormattedPrice(p.Commission)),
			fmt.Sprintf("%f", chartval.PrepareFormattedPrice(p.Slippage)),
			fmt.Sprintf("%f", chartval.PrepareFormattedPrice(p.RealizedPnl)),
		})
		total.Add(total, p.RealizedPnl)
	}
	table.SetFooter([]string{"", "", "", "", "", "", "TOTAL", fmt.Sprintf("%f", chartval.PrepareFormattedPrice(total))})
	table.Render()
}

// WriteStatsTable prints the performance figures of a result.
func WriteStatsTable(w io.Writer, r *Result) {
	table := tablewriter.NewWriter(w)
	table.AppendBulk([][]string{
		{"Run", r.RunId},
		{"Symbol", r.Config.Symbol},
		{"Bars", strconv.Itoa(len(r.PriceSeries))},
		{"Trades", strconv.Itoa(len(r.Trades))},
		{"Winning trades", strconv.Itoa(countWinningTrades(r.Trades))},
		{"Total return", fmt.Sprintf("%.2f %%", r.Stats.TotalReturn*100)},
		{"Annualized", fmt.Sprintf("%.2f %%", r.Stats.AnnualizedReturn*100)},
		{"Sharpe", fmt.Sprintf("%.2f", r.Stats.Sharpe)},
		{"Max drawdown", fmt.Sprintf("%.2f %%", r.Stats.MaxDrawdown*100)},
	})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()
}

func countWinningTrades(trades []Trade) int {
	n := 0
	for _, t := range trades {
		if chartval.IsGreaterThanZero(t.RealizedPnl) {
			n++
		}
	}
	return n
}

// FormatTimestamp formats a unix millisecond timestamp, or a bar index if the
// data has no time axis.
func FormatTimestamp(v float64, isTime bool) string {
	if !isTime {
		return fmt.Sprintf("#%d", int64(v))
	}
	return time.UnixMilli(int64(v)).UTC().Format(tradeTimeFormat)
}
