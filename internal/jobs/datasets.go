package jobs

import (
	"time"

	"indicators/internal/config"
	"indicators/internal/normalize"
	"indicators/internal/sources"
)

// Source identifiers recorded on every record
const (
	SourceBCRA      = "bcra"
	SourceINDEC     = "indec"
	SourceWorldBank = "worldbank"
)

// Fixed endpoints of the three publishers
var (
	ExchangeRateEndpoint = sources.Endpoint{
		Name:     SourceBCRA,
		URL:      config.ExchangeRateURL,
		Kind:     sources.KindWorkbook,
		FileName: "com3500.xls",
		// The publisher's certificate chain does not verify.
		InsecureTLS: true,
	}
	InflationEndpoint = sources.Endpoint{
		Name:     SourceINDEC,
		URL:      config.InflationURL,
		Kind:     sources.KindDelimited,
		FileName: "serie_ipc_divisiones.csv",
	}
	EmploymentEndpoint = sources.Endpoint{
		Name:     SourceWorldBank,
		URL:      config.EmploymentURL,
		Kind:     sources.KindArchive,
		FileName: "SL.UEM.TOTL.ZS.zip",
	}
)

// Exchange rate workbook: three title rows, then date and rate per row.
const exchangeRateMinRows = 4

var exchangeRateLayout = sources.Layout{
	MinRows:   exchangeRateMinRows,
	HeaderRow: 2,
	Columns:   map[int]string{2: "Fecha"},
}

var exchangeRateSchema = normalize.Schema{
	Dataset:         config.JobExchangeRate,
	Source:          SourceBCRA,
	SkipRows:        3,
	TimestampColumn: 2,
	ValueColumn:     3,
	TimestampKind:   normalize.KindDate,
	DateLayouts:     []string{"02/01/2006", "2/1/2006", normalize.DateLayout, "02-01-2006", time.RFC3339},
	NullOnBadValue:  false,
}

// Inflation CSV: semicolon separated latin1 with a single header row.
var (
	inflationCSV = sources.DelimitedOptions{Charset: "latin1", Comma: ';', MinRows: 2}

	inflationLayout = sources.Layout{
		MinRows:   2,
		HeaderRow: 0,
		Columns: map[int]string{
			1: "Descripcion",
			3: "Periodo",
			5: "v_m_IPC",
			7: "Region",
		},
	}

	inflationSchema = normalize.Schema{
		Dataset:         config.JobInflation,
		Source:          SourceINDEC,
		SkipRows:        1,
		TimestampColumn: 3,
		ValueColumn:     5,
		TimestampKind:   normalize.KindPeriod,
		NullOnBadValue:  true,
		Filters: map[int]string{
			1: "NIVEL GENERAL",
			7: "Nacional",
		},
	}
)

// Employment archive: one data CSV among metadata CSVs, four preamble rows
// before the header.
var (
	employmentArchive = sources.ArchiveOptions{
		Suffix:    ".csv",
		Exclude:   "Metadata",
		Delimited: sources.DelimitedOptions{MinRows: 2},
	}

	employmentHeader = map[int]string{
		0: "Country Name",
		1: "Country Code",
		2: "Indicator Name",
		3: "Indicator Code",
	}

	employmentSchema = normalize.WideSchema{
		Dataset:         config.JobEmployment,
		Source:          SourceWorldBank,
		HeaderMarker:    "Country Name",
		MaxHeaderRow:    4,
		FirstYearColumn: 4,
		TrailingColumns: 1,
		Dimensions: map[string]int{
			normalize.DimCountryName:   0,
			normalize.DimCountryCode:   1,
			normalize.DimIndicatorName: 2,
			normalize.DimIndicatorCode: 3,
		},
		KeyDimension:   normalize.DimCountryCode,
		FirstYear:      config.EmploymentFirstYear,
		LastYear:       config.EmploymentLastYear,
		NullOnBadValue: true,
	}
)
