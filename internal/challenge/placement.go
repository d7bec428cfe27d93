package challenge

import "math/rand"

const (
	// MinSeparation is the target pairwise distance between placed points.
	MinSeparation = 90.0

	// placementInset keeps geometry away from canvas edges.
	placementInset = 40.0

	// maxPlacementAttempts bounds rejection sampling per point. On
	// cramped canvases the constraint is best-effort: after the budget
	// is spent the candidate is accepted anyway so layout always
	// terminates.
	maxPlacementAttempts = 64
)

// scatterPoints places count points inside the inset safe region with
// pairwise separation of at least minSep where the canvas allows it.
func scatterPoints(rng *rand.Rand, size Size, count int, minSep float64) []Point {
	origin, region := safeRegion(size)
	points := make([]Point, 0, count)

	for len(points) < count {
		var candidate Point

		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			candidate = randomPoint(rng, origin, region)
			if separated(candidate, points, minSep) {
				break
			}
		}

		points = append(points, candidate)
	}

	return points
}

// safeRegion shrinks the canvas by the placement inset, falling back to the
// full canvas when it is too small to inset.
func safeRegion(size Size) (Point, Size) {
	region := Size{
		Width:  size.Width - 2*placementInset,
		Height: size.Height - 2*placementInset,
	}

	if region.Width <= 0 || region.Height <= 0 {
		return Point{}, size
	}

	return Point{X: placementInset, Y: placementInset}, region
}

// randomPoint draws a uniform point inside the region anchored at origin.
func randomPoint(rng *rand.Rand, origin Point, region Size) Point {
	return Point{
		X: origin.X + rng.Float64()*region.Width,
		Y: origin.Y + rng.Float64()*region.Height,
	}
}

// separated reports whether the candidate keeps minSep from every point.
func separated(candidate Point, points []Point, minSep float64) bool {
	for _, p := range points {
		if candidate.DistanceTo(p) < minSep {
			return false
		}
	}

	return true
}
