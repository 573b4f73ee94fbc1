package store

// SeriesRow is a row of a date or period keyed series table.
type SeriesRow struct {
	ID        uint     `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp string   `gorm:"column:timestamp;size:10;not null"`
	Value     *float64 `gorm:"column:value"`
}

// EmploymentRow is one country and year of the unemployment table.
type EmploymentRow struct {
	CountryName   string   `gorm:"column:country_name;not null"`
	CountryCode   string   `gorm:"column:country_code;size:8;not null"`
	IndicatorName string   `gorm:"column:indicator_name"`
	IndicatorCode string   `gorm:"column:indicator_code;size:32"`
	Year          int      `gorm:"column:year;not null"`
	Value         *float64 `gorm:"column:value"`
}
