// Package ppfas locates and downloads the monthly portfolio disclosures published by PPFAS
// Mutual Fund.
package ppfas

import (
	"fmt"
	"strings"

	"github.com/etnz/fundiff/date"
)

// DefaultBaseURL is where the publisher hosts the disclosures, one folder per year.
const DefaultBaseURL = "https://amc.ppfas.com/downloads/portfolio-disclosure"

// Extensions are the workbook formats a disclosure may be published in, in preference order.
var Extensions = []string{"xlsx", "xls"}

// ReportDate returns the date of the disclosure published monthsAgo months before today.
// Disclosures are dated on the last day of their month.
func ReportDate(today date.Date, monthsAgo int) date.Date {
	return today.MonthsAgo(monthsAgo)
}

// ReportURL returns the address of the disclosure dated on d, in format ext.
//
//	https://amc.ppfas.com/downloads/portfolio-disclosure/2025/PPFAS_Monthly_Portfolio_Report_September_30_2025.xlsx
func ReportURL(base string, d date.Date, ext string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%d/%s", strings.TrimSuffix(base, "/"), d.Year(), ReportFile(d, ext))
}

// ReportFile returns the file name of the disclosure dated on d.
func ReportFile(d date.Date, ext string) string {
	return fmt.Sprintf("PPFAS_Monthly_Portfolio_Report_%s_%s_%d.%s", d.Format("January"), d.Format("02"), d.Year(), ext)
}
