// Package aggregation transforms an instrument's ordered daily bars into the
// five derived timeframe series (daily, Monday-weekly, expiry-weekly,
// monthly, yearly) and cross-links them.
//
// The aggregator applies one fixed OHLCV roll-up rule to every grouping:
// open of the earliest bar, max high, min low, close of the latest bar,
// summed volume and the latest bar's open interest. Period-over-period
// returns are computed per timeframe with an explicit previous-close
// accumulator; the first bucket of a series has return 0 and is not
// positive.
//
// The linker is a pure function over the five series. It copies each
// enclosing coarser record's parity, return and positive flags into the
// finer records via hash-map lookups keyed on ISO anchor dates, so linking
// stays O(n) per instrument. A missed lookup is not an error; it leaves the
// cross-reference nil, which is expected at series boundaries.
package aggregation
