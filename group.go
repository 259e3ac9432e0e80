package tilewarp

import "github.com/georaster/tilewarp/raster"

// sourceGroup is a transient set of sources sharing a native reference
// system. Sources in different systems cannot be mosaicked in one pass, so
// each group is composited on its own and the groups merged afterwards.
type sourceGroup struct {
	epsg    int
	members []raster.Source
}

// groupSources partitions sources by EPSG code. Group priority is the first
// appearance of each code in the source list, and members keep their input
// order, so the merge order is fully determined by the caller's list.
func groupSources(sources []raster.Source) []sourceGroup {
	var groups []sourceGroup
	byEPSG := make(map[int]int)
	for _, src := range sources {
		idx, ok := byEPSG[src.EPSG()]
		if !ok {
			idx = len(groups)
			byEPSG[src.EPSG()] = idx
			groups = append(groups, sourceGroup{epsg: src.EPSG()})
		}
		groups[idx].members = append(groups[idx].members, src)
	}
	return groups
}
