// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const observedHolidayPostfix = "(observed)"

// BankCalendar knows the trading sessions of a US exchange.
type BankCalendar struct {
	bankLocation     *time.Location
	calendar         *cal.BusinessCalendar
	stdCloseTime     bankTime
	partialCloseTime bankTime
}

type bankTime struct {
	hours   int
	minutes int
}

func NewUSBankCalendar() BankCalendar {
	// NYSE uses ET, which can be either EST or EDT.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("NYSE time location not supported")
	}
	cal := cal.NewBusinessCalendar()
	// Source for bank holidays: https://www.federalreserve.gov/aboutthefed/k8.htm
	cal.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	cal.Cacheable = true
	return BankCalendar{
		calendar:         cal,
		bankLocation:     loc,
		stdCloseTime:     bankTime{hours: 16, minutes: 0},
		partialCloseTime: bankTime{hours: 13, minutes: 0},
	}
}

func (b BankCalendar) IsBankHoliday(t time.Time) (bool, string) {
	actual, observed, h := b.calendar.IsHoliday(t.In(b.bankLocation))
	if !actual && !observed {
		return false, ""
	} else if !actual {
		return true, h.Name + " " + observedHolidayPostfix
	} else {
		return true, h.Name
	}
}

func (b BankCalendar) IsTradingDay(t time.Time) (trading bool, partial bool) {
	day := t.In(b.bankLocation)
	trading = b.calendar.IsWorkday(day)

	if trading {
		holiday, name := b.IsBankHoliday(day.AddDate(0, 0, 1))
		// There are partial trading days before independence day and christmas.
		if holiday && (name == us.IndependenceDay.Name || name == us.ChristmasDay.Name) {
			partial = true
		} else {
			// There is a partial trading day before thanksgiving
			holiday, name = b.IsBankHoliday(day.AddDate(0, 0, -1))
			if holiday && name == us.ThanksgivingDay.Name {
				partial = true
			}
		}
	}
	return
}

// SessionClose returns the closing time of the session on the day of t.
func (b BankCalendar) SessionClose(t time.Time) (time.Time, bool) {
	day := t.In(b.bankLocation)
	trading, partial := b.IsTradingDay(day)
	if !trading {
		return time.Time{}, false
	}
	closeTime := b.stdCloseTime
	if partial {
		closeTime = b.partialCloseTime
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, closeTime.hours, closeTime.minutes, 0, 0, b.bankLocation), true
}

// SessionCloses returns the closing times of n consecutive sessions, starting on the day of from.
func (b BankCalendar) SessionCloses(from time.Time, n int) []time.Time {
	closes := make([]time.Time, 0, n)
	day := from.In(b.bankLocation)
	for len(closes) < n {
		if c, ok := b.SessionClose(day); ok {
			closes = append(closes, c)
		}
		day = day.AddDate(0, 0, 1)
	}
	return closes
}
