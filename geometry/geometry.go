package geometry

import "math"

const earthRadiusMeters = 6371000.0

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the great-circle (haversine) distance between a and b in
// meters. Symmetric; zero iff a == b within floating tolerance.
func Distance(a, b Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// Interpolate returns the componentwise linear blend of a and b at fraction
// t. No domain restriction on t; callers clamp before calling.
func Interpolate(a, b Coordinate, t float64) Coordinate {
	return Coordinate{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lon: a.Lon + t*(b.Lon-a.Lon),
	}
}

// ProjectFraction returns the clamped projection parameter t in [0,1] of p
// onto the segment from segStart to segEnd, computed in lat/lon space. A
// zero-length segment yields 0.
func ProjectFraction(p, segStart, segEnd Coordinate) float64 {
	vx := segEnd.Lon - segStart.Lon
	vy := segEnd.Lat - segStart.Lat
	wx := p.Lon - segStart.Lon
	wy := p.Lat - segStart.Lat
	denom := vx*vx + vy*vy
	if denom == 0 {
		return 0
	}
	t := (wx*vx + wy*vy) / denom
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Bearing returns the initial great-circle bearing from a to b in degrees,
// normalized to [0,360).
func Bearing(a, b Coordinate) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180
	x := math.Sin(dLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	deg := math.Atan2(x, y) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Clamp constrains v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
