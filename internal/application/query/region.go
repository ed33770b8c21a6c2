package query

import (
	"strings"

	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

// namedRegions maps recognized ocean region phrases to bounding boxes.
// Boxes are coarse on purpose; they gate retrieval, they do not claim
// oceanographic precision.
var namedRegions = []struct {
	Name string
	Box  repository.BoundingBox
}{
	{"arabian sea", repository.BoundingBox{MinLat: 10, MaxLat: 25, MinLon: 50, MaxLon: 75}},
	{"bay of bengal", repository.BoundingBox{MinLat: 5, MaxLat: 25, MinLon: 80, MaxLon: 100}},
	{"indian ocean", repository.BoundingBox{MinLat: -50, MaxLat: 30, MinLon: 30, MaxLon: 120}},
}

// MatchRegion returns the bounding box for a named region mentioned in
// text. More specific regions are listed before the basins that contain
// them, so "arabian sea" wins over "indian ocean".
func MatchRegion(text string) (string, *repository.BoundingBox) {
	lower := strings.ToLower(text)
	for _, r := range namedRegions {
		if strings.Contains(lower, r.Name) {
			box := r.Box
			return r.Name, &box
		}
	}
	return "", nil
}
