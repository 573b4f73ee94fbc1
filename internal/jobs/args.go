package jobs

import (
	"strconv"
	"strings"

	"indicators/internal/config"
	"indicators/internal/normalize"
	"indicators/internal/period"
)

// EmploymentArgs configures the employment job
type EmploymentArgs struct {
	// Country is matched against the country name or code, ignoring case.
	Country string `validate:"required"`
}

// InflationArgs configures the inflation job
type InflationArgs struct {
	From    period.Period `validate:"required"`
	Until   period.Period `validate:"required"`
	Horizon int           `validate:"gte=0,lte=120"`
}

// ExchangeRateArgs configures the exchange rate job. Empty bounds are open.
type ExchangeRateArgs struct {
	From  string `validate:"omitempty,datetime=2006-01-02"`
	Until string `validate:"omitempty,datetime=2006-01-02"`
}

// ParseEmploymentArgs reads <country>. Extra words are joined, so an unquoted
// multi word country name still works.
func ParseEmploymentArgs(args []string) (EmploymentArgs, error) {
	if len(args) == 0 {
		return EmploymentArgs{}, usage(config.JobEmployment, "<country>", "missing country")
	}
	a := EmploymentArgs{Country: strings.TrimSpace(strings.Join(args, " "))}
	if err := config.Validator().Struct(a); err != nil {
		return EmploymentArgs{}, usage(config.JobEmployment, "<country>", err.Error())
	}
	return a, nil
}

// ParseInflationArgs reads <period-from> <period-until> <horizon>.
func ParseInflationArgs(args []string) (InflationArgs, error) {
	const synopsis = "<period-from> <period-until> <horizon>"
	if len(args) != 3 {
		return InflationArgs{}, usage(config.JobInflation, synopsis, "expected 3 arguments, got "+strconv.Itoa(len(args)))
	}

	from, err := period.Parse(args[0])
	if err != nil {
		return InflationArgs{}, usage(config.JobInflation, synopsis, "period-from: "+err.Error())
	}
	until, err := period.Parse(args[1])
	if err != nil {
		return InflationArgs{}, usage(config.JobInflation, synopsis, "period-until: "+err.Error())
	}
	horizon, err := strconv.Atoi(strings.TrimSpace(args[2]))
	if err != nil {
		return InflationArgs{}, usage(config.JobInflation, synopsis, "horizon must be an integer")
	}

	a := InflationArgs{From: from, Until: until, Horizon: horizon}
	if err := config.Validator().Struct(a); err != nil {
		return InflationArgs{}, usage(config.JobInflation, synopsis, err.Error())
	}
	if until.Before(from) {
		return InflationArgs{}, usage(config.JobInflation, synopsis, "period-until is before period-from")
	}
	return a, nil
}

// ParseExchangeRateArgs reads [date-from] [date-until].
func ParseExchangeRateArgs(args []string) (ExchangeRateArgs, error) {
	const synopsis = "[date-from] [date-until]"
	if len(args) > 2 {
		return ExchangeRateArgs{}, usage(config.JobExchangeRate, synopsis, "expected at most 2 arguments")
	}

	var a ExchangeRateArgs
	if len(args) > 0 {
		a.From = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		a.Until = strings.TrimSpace(args[1])
	}
	if err := config.Validator().Struct(a); err != nil {
		return ExchangeRateArgs{}, usage(config.JobExchangeRate, synopsis, "dates must be "+normalize.DateLayout)
	}
	if a.From != "" && a.Until != "" && a.Until < a.From {
		return ExchangeRateArgs{}, usage(config.JobExchangeRate, synopsis, "date-until is before date-from")
	}
	return a, nil
}
