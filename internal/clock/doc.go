// Package clock abstracts the time functions the sync engine depends on so
// tests can control apparent time.
//
// Real indirects package time. Fake only moves when Advance is called and
// fires every timer and ticker whose deadline was reached; like time.Ticker,
// its tickers drop ticks a slow receiver has not consumed.
package clock
