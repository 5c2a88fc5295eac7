package coord

import (
	"fmt"
	"math"
	"strings"
)

// WGS84 ellipsoid constants.
const (
	semiMajorAxis = 6378137.0
	eccSquared    = 0.00669437999014
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0
)

// validBands is the MGRS latitude band set: C through X, skipping I and O
// which are never used because they read as digits. A, B, Y and Z are polar
// (UPS) bands outside the transverse Mercator domain and are rejected.
const validBands = "CDEFGHJKLMNPQRSTUVWX"

// ValidBand reports whether b is a usable UTM latitude band letter.
func ValidBand(b byte) bool {
	return strings.IndexByte(validBands, b) >= 0
}

// NorthernBand reports whether the band letter lies in the northern
// hemisphere. Bands N through X are northern, C through M southern.
func NorthernBand(b byte) bool {
	return b >= 'N'
}

// ToLatLon converts a UTM coordinate to decimal degrees on WGS84 using the
// standard Krüger series expansion. The conversion is deterministic; for the
// documented test vectors the drift against reference values is under 0.001°.
func ToLatLon(zone int, easting, northing float64, band byte) (lat, lon float64, err error) {
	if zone < 1 || zone > 60 {
		return 0, 0, fmt.Errorf("utm zone %d out of range 1-60", zone)
	}
	if !ValidBand(band) {
		return 0, 0, fmt.Errorf("invalid utm band letter %q", string(band))
	}
	if easting < 100000 || easting >= 900000 {
		return 0, 0, fmt.Errorf("utm easting %.0f outside plausible range", easting)
	}
	if northing < 0 || northing > falseNorthing {
		return 0, 0, fmt.Errorf("utm northing %.0f outside plausible range", northing)
	}

	x := easting - falseEasting
	y := northing
	if !NorthernBand(band) {
		y -= falseNorthing
	}

	e2 := eccSquared
	ep2 := e2 / (1 - e2)

	m := y / scaleFactor
	mu := m / (semiMajorAxis * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := semiMajorAxis / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := semiMajorAxis * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scaleFactor)

	latRad := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lonRad := (d - (1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120) / cosPhi1

	centralMeridian := float64(zone*6 - 183)
	lat = latRad * 180 / math.Pi
	lon = centralMeridian + lonRad*180/math.Pi

	return lat, lon, nil
}
