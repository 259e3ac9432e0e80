package coord

// SwissLV95 is the CH1903+ / LV95 system (EPSG:2056), implemented with the
// swisstopo approximation polynomials. Accurate to about a meter, well under
// a pixel at the resolutions Swiss sources come in.
//
// https://www.swisstopo.admin.ch/en/knowledge-facts/surveying-geodesy/reference-frames/local/lv95.html
type SwissLV95 struct{}

func (s *SwissLV95) EPSG() int { return 2056 }

func (s *SwissLV95) ToWGS84(easting, northing float64) (lon, lat float64) {
	// Offsets from the Bern origin in 1000 km units.
	e := (easting - 2_600_000) / 1_000_000
	n := (northing - 1_200_000) / 1_000_000

	// The polynomials yield angles in units of 10000 sexagesimal seconds;
	// 100/36 converts to degrees.
	lon = (2.6779094 +
		4.728982*e +
		0.791484*e*n +
		0.1306*e*n*n -
		0.0436*e*e*e) * 100 / 36
	lat = (16.9023892 +
		3.238272*n -
		0.270978*e*e -
		0.002528*n*n -
		0.0447*e*e*n -
		0.0140*n*n*n) * 100 / 36
	return
}

func (s *SwissLV95) FromWGS84(lon, lat float64) (easting, northing float64) {
	// Angles in sexagesimal seconds, shifted to the Bern origin and scaled
	// to the polynomials' auxiliary units.
	phi := (lat*3600 - 169_028.66) / 10_000
	lam := (lon*3600 - 26_782.5) / 10_000

	easting = 2_600_072.37 +
		211_455.93*lam -
		10_938.51*lam*phi -
		0.36*lam*phi*phi -
		44.54*lam*lam*lam
	northing = 1_200_147.07 +
		308_807.95*phi +
		3_745.25*lam*lam +
		76.63*phi*phi -
		194.56*lam*lam*phi +
		119.79*phi*phi*phi
	return
}
