// Package geom holds the flat-screen geometry used to turn clicked pixel
// coordinates into bearings and distances.
//
// Screen coordinates grow right (x) and down (y). Angles are measured
// clockwise from screen-up, so 0 is up, 90 is right, 180 is down.
package geom

import "math"

// Point is a screen position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Normalize wraps an angle in degrees into [0, 360). Negative input is handled.
func Normalize(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// screenAngle is the angle of p1->p2 clockwise from screen-up, in degrees.
// A zero-length vector gives 0.
func screenAngle(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	// -dy is -0 here, and Atan2(0, -0) is 180
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dx, -dy) * 180 / math.Pi
}

// Bearing returns the direction from p1 to p2 in [0, 360), rotated by the
// calibrated north offset.
func Bearing(p1, p2 Point, northOffset float64) float64 {
	return Normalize(screenAngle(p1, p2) + northOffset)
}

// PixelDistance returns the Euclidean distance between two points.
func PixelDistance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// PixelsToNauticalMiles converts a pixel distance using a calibration of
// calibratedPixels == calibratedNM. An uncalibrated scale (0 pixels) gives 0.
func PixelsToNauticalMiles(pixels, calibratedPixels, calibratedNM float64) float64 {
	if calibratedPixels == 0 {
		return 0
	}
	return pixels / calibratedPixels * calibratedNM
}

// NorthOffsetFromCalibration returns the rotation that makes the direction
// center->northPoint read as 0. The result is in (-180, 180] and is not
// normalized.
func NorthOffsetFromCalibration(center, northPoint Point) float64 {
	return -screenAngle(center, northPoint)
}

// MagneticHeading applies magnetic variance (East positive) to a true heading:
// magnetic = true - variance.
func MagneticHeading(trueHeading, variance float64) float64 {
	return Normalize(trueHeading - variance)
}

// Midpoint returns the point halfway between p1 and p2.
func Midpoint(p1, p2 Point) Point {
	return Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
}

// OffsetPoint returns the point distance away from base along angle degrees
// clockwise from up.
func OffsetPoint(base Point, distance, angle float64) Point {
	rad := angle * math.Pi / 180
	return Point{
		X: base.X + distance*math.Sin(rad),
		Y: base.Y - distance*math.Cos(rad),
	}
}

// ArrowHead returns the two barb ends of an arrowhead drawn at to, pointing
// away from from. spread is the half-angle of the head in radians.
func ArrowHead(from, to Point, length, spread float64) (Point, Point) {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	left := Point{
		X: to.X - length*math.Cos(angle-spread),
		Y: to.Y - length*math.Sin(angle-spread),
	}
	right := Point{
		X: to.X - length*math.Cos(angle+spread),
		Y: to.Y - length*math.Sin(angle+spread),
	}
	return left, right
}
