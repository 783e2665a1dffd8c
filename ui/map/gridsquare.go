package mapview

import (
	"fmt"
	"strings"
)

// GridSquareToLatLon returns the longitude (X) and latitude (Y) of the
// center of a 4- or 6-character Maidenhead locator such as "FN42" or
// "FN42hn". Charts are centered on it at startup.
func GridSquareToLatLon(grid string) (float64, float64, error) {
	grid = strings.ToUpper(strings.TrimSpace(grid))
	if len(grid) != 4 && len(grid) != 6 {
		return 0, 0, fmt.Errorf("locator %q must be 4 or 6 characters", grid)
	}

	field := func(c byte, max byte) (float64, error) {
		if c < 'A' || c > max {
			return 0, fmt.Errorf("locator %q: bad letter %q", grid, c)
		}
		return float64(c - 'A'), nil
	}
	digit := func(c byte) (float64, error) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("locator %q: bad digit %q", grid, c)
		}
		return float64(c - '0'), nil
	}

	// Field: 20° x 10°
	fLon, err := field(grid[0], 'R')
	if err != nil {
		return 0, 0, err
	}
	fLat, err := field(grid[1], 'R')
	if err != nil {
		return 0, 0, err
	}
	// Square: 2° x 1°
	sLon, err := digit(grid[2])
	if err != nil {
		return 0, 0, err
	}
	sLat, err := digit(grid[3])
	if err != nil {
		return 0, 0, err
	}

	lon := fLon*20 - 180 + sLon*2
	lat := fLat*10 - 90 + sLat

	if len(grid) == 4 {
		return lon + 1.0, lat + 0.5, nil
	}

	// Subsquare: 5' x 2.5'
	ssLon, err := field(grid[4], 'X')
	if err != nil {
		return 0, 0, err
	}
	ssLat, err := field(grid[5], 'X')
	if err != nil {
		return 0, 0, err
	}
	lon += ssLon*(2.0/24.0) + 1.0/24.0
	lat += ssLat*(1.0/24.0) + 0.5/24.0
	return lon, lat, nil
}
