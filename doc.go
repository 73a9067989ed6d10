// Package fundiff extracts the holdings of a mutual fund from its monthly portfolio disclosure
// workbook and compares two disclosures of the same fund.
//
// The extraction pipeline is:
//   - Column detection: the leading rows of the fund's sheet are inspected to locate the
//     company name, percent of net assets, quantity and market value columns.
//   - Section parsing: rows are scanned top to bottom, grouped under the section header
//     found in the anchor column, until the GRAND TOTAL row.
//   - Row classification: totals, sub-headers and return tables are rejected, holdings are
//     normalized into HoldingRecord values.
//
// Diff then aggregates each company's lots, matches companies across both periods by
// normalized name and ranks the changes, traded companies first.
//
// This package serves as the core of the `fdiff` command-line tool.
package fundiff
