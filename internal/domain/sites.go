package domain

// Site is a named sample point with a satellite column density.
type Site struct {
	City          string
	Lat           float64
	Lon           float64
	ColumnDensity float64 // mol/m²
}

// Reading builds the source-topic payload for the site.
func (s Site) Reading() RawReading {
	cd := s.ColumnDensity
	return RawReading{
		Site:          s.City,
		Lat:           s.Lat,
		Lon:           s.Lon,
		ColumnDensity: &cd,
	}
}

// SampleSites are the reference TEMPO sample points for eight US cities.
var SampleSites = []Site{
	{City: "Washington DC", Lat: 38.9, Lon: -77.0, ColumnDensity: 0.00007},
	{City: "Los Angeles", Lat: 34.0, Lon: -118.2, ColumnDensity: 0.00005},
	{City: "New York", Lat: 40.7, Lon: -74.0, ColumnDensity: 0.00008},
	{City: "Chicago", Lat: 41.9, Lon: -87.6, ColumnDensity: 0.00004},
	{City: "Dallas", Lat: 32.8, Lon: -96.8, ColumnDensity: 0.00003},
	{City: "San Francisco", Lat: 37.8, Lon: -122.4, ColumnDensity: 0.00009},
	{City: "Atlanta", Lat: 39.1, Lon: -84.5, ColumnDensity: 0.00006},
	{City: "Phoenix", Lat: 33.4, Lon: -112.1, ColumnDensity: 0.00002},
}
