// Package domain models satellite NO₂ readings and their air-quality assessment.
//
// # Data Source
//
// Readings originate from the NASA TEMPO instrument, which reports nitrogen
// dioxide as a tropospheric column density: moles of NO₂ above one square
// meter of ground (mol/m²). An upstream producer publishes one JSON reading
// per sample point to the Kafka source topic:
//
//	{"site":"Washington DC","lat":38.9,"lon":-77.0,"no2_molm2":0.00007,"observed_at":"2024-04-26T15:00:00Z"}
//
// # Unit Conversion
//
// Health standards and ground sensors use mass concentration (μg/m³). The
// column is spread evenly over an assumed boundary layer and scaled by the
// molar mass of NO₂:
//
//	μg/m³ = (mol/m² ÷ boundary_layer_height_m) × 46 g/mol × 10⁶ μg/g
//
// With the default 1000 m layer this is a fixed factor of 46000, so the
// reference value 0.00007 mol/m² becomes 3.22 μg/m³. See [Converter].
//
// # AQI Classification
//
// Concentrations are bucketed against ascending, upper-inclusive thresholds;
// a value exactly on a bound belongs to the safer band:
//
//	≤ 53    Good                            #00E400  level 0
//	≤ 100   Moderate                        #FFFF00  level 1
//	≤ 360   Unhealthy for Sensitive Groups  #FF7E00  level 2
//	≤ 649   Unhealthy                       #FF0000  level 3
//	≤ 1249  Very Unhealthy                  #8F3F97  level 4
//	> 1249  Hazardous                       #7E0023  level 5
//
// Negative, NaN and infinite inputs are rejected with [ErrInvalidMeasurement]
// or [ErrInvalidConcentration]. Callers display them as "no data" and never
// as "Good". See [Classify].
//
// # Enrichment
//
// Assessments are optionally enriched with the nearest WAQI ground station
// and current OpenWeather conditions through [GroundSensorFeed] and
// [WeatherFeed]. Enrichment never fails an assessment; the outcome is
// recorded in GroundSource / WeatherSource.
//
// # ID Generation
//
// Assessment IDs are deterministic SHA-256 prefixes of
// site|lat|lon|observed_at|no2_molm2 so replays produce the same sink key.
package domain
