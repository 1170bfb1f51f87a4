// SPDX-License-Identifier: MIT

package session

import "github.com/fretline/discovery/internal/harvester"

// harvesterFilters translates the request's generic key/value filters into
// the Harvester's typed Filters per spec.md §6.1. Unrecognized keys are
// ignored; the Harvester's own defaults cover anything left unset.
func harvesterFilters(raw map[string]string) harvester.Filters {
	return harvester.Filters{
		UploadDate:  raw["upload_date"],
		Duration:    raw["duration"],
		Sort:        raw["sort"],
		QualityHint: raw["quality_hint"],
	}
}
