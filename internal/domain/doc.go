// Package domain models US EPA air quality index (AQI) data as it is
// presented by the dashboard.
//
// # Data Source
//
// The tables are pre-aggregated extracts of the EPA AirData annual
// summaries. Two tables carry measurements and one carries the AQI
// category breakpoints:
//
//	by_county_epa_df.csv           one row per county per year, mean AQI
//	epa_df_counties.csv            one row per measurement event, with parameter
//	aqi_table_classifications.csv  AQI breakpoints and category labels
//
// # Conventions
//
// FIPS codes:
//
//	County FIPS codes are five digits: two for the state, three for the
//	county. Source files written by spreadsheet tooling frequently store
//	them as integers, dropping the leading zero: 1001 is Autauga County,
//	AL and must be read back as "01001". See [NormalizeFIPS].
//
// Parameters and pollutant groups:
//
//	PM   particulate matter   PM2.5, PM10
//	OZ   ozone                O3 1-hr, O3 8-hr
//	Gas  other gases          CO, SO2, NO2
//
// Classification:
//
//	Breakpoints are half-open ranges [lower, upper) scanned in table order;
//	the first match wins. Ranges are validated at load time so the scan
//	order cannot hide an overlap or a gap. Values outside every range
//	resolve to [Unclassified].
//
// State sentinel:
//
//	"USA" is not a state code. It selects the nationwide map, where every
//	county of the chosen year is drawn and county-level controls are hidden.
package domain
