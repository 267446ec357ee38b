package omero

import (
	"sort"
	"strings"
)

// Project is a top-level container record as returned by the
// webgateway project endpoints.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dataset is a child container of a Project.
type Dataset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Image is a child record of a Dataset. ThumbURL is a path relative to
// the server base URL.
type Image struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ThumbURL string `json:"thumb_url"`
}

// Annotation is one structured metadata record attached to a container.
// Values holds nested [key, value] pairs; keys may repeat.
type Annotation struct {
	ID     int64      `json:"id"`
	NS     string     `json:"ns"`
	Values [][]string `json:"values"`
}

// ExperimentMarker is the default name suffix identifying curated
// experiment projects in the repository.
const ExperimentMarker = "/experiment"

// FilterExperiments keeps only projects whose name carries the marker
// and returns them sorted ascending by id. An empty input yields an
// empty, non-nil slice so downstream table writers see a valid table.
func FilterExperiments(projects []Project, marker string) []Project {
	if marker == "" {
		marker = ExperimentMarker
	}

	filtered := make([]Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(p.Name, marker) {
			filtered = append(filtered, p)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ID < filtered[j].ID
	})

	return filtered
}
