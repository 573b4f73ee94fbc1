package store

import (
	"indicators/internal/config"
)

// Policy is how a new batch is integrated with stored rows.
type Policy int

const (
	// Replace clears the table and inserts the batch in one transaction.
	Replace Policy = iota
	// Append inserts the batch as is. Rerunning a batch duplicates its rows.
	Append
)

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return "unknown"
	}
}

// Layout is the column shape of a dataset table.
type Layout int

const (
	// LayoutSeries is {id, timestamp, value}.
	LayoutSeries Layout = iota
	// LayoutEmployment is {country_name, country_code, indicator_name, indicator_code, year, value}.
	LayoutEmployment
)

// Dataset names a table and how it is loaded.
type Dataset struct {
	Name   string
	Table  string
	Layout Layout
	Policy Policy
}

// Known datasets.
var (
	ExchangeRate = Dataset{Name: config.JobExchangeRate, Table: config.TableExchangeRate, Layout: LayoutSeries, Policy: Replace}
	Inflation    = Dataset{Name: config.JobInflation, Table: config.TableInflation, Layout: LayoutSeries, Policy: Append}
	Employment   = Dataset{Name: config.JobEmployment, Table: config.TableEmployment, Layout: LayoutEmployment, Policy: Replace}
)
