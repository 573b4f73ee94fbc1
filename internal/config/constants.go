package config

import "time"

// Application constants
const (
	AppName    = "indicators"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. INDICATORS_DATABASE_DRIVER
	EnvPrefix = "INDICATORS"
)

// Fixed source endpoints.
const (
	ExchangeRateURL = "https://www.bcra.gob.ar/pdfs/publicacionesestadisticas/com3500.xls"
	InflationURL    = "https://www.indec.gob.ar/ftp/cuadros/economia/serie_ipc_divisiones.csv"
	EmploymentURL   = "https://api.worldbank.org/v2/es/indicator/SL.UEM.TOTL.ZS?downloadformat=csv"
)

// Job names double as the binary names the orchestrator launches
const (
	JobEmployment   = "employment"
	JobInflation    = "inflation"
	JobExchangeRate = "exchangerate"
)

// Dataset tables
const (
	TableExchangeRate = "ft_bcra_dolar"
	TableInflation    = "ft_indec_ipc"
	TableEmployment   = "ft_wb_unemployment"
)

const (
	// DefaultJobTimeout bounds each job in the default batch
	DefaultJobTimeout = 1200 * time.Second

	// DefaultHighlightCountry is the employment job argument in the default batch
	DefaultHighlightCountry = "Argentina"

	// DefaultProjectionHorizon is the inflation horizon in the default batch
	DefaultProjectionHorizon = 0

	// InflationProjectionWindow is the trailing window fitted for inflation
	InflationProjectionWindow = 6

	// Employment year columns kept from the World Bank table.
	// TODO: derive EmploymentLastYear from the header once the publisher's
	// lag between reference year and release is settled.
	EmploymentFirstYear = 1991
	EmploymentLastYear  = 2024
)

// Query service bounds
const (
	QueryDefaultLimit = 15
	QueryDefaultDays  = 15
	QueryMaxLimit     = 100
	QueryMaxDays      = 365
)

// Artifact file names written under the reports directory
const (
	InflationProjectionFile = "inflation_projection.csv"
	EmploymentSummaryFile   = "employment_summary.csv"
)
