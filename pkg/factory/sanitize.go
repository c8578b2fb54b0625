package factory

import (
	"math"

	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

type SanitizeStats struct {
	Input            int
	DroppedNoGeom    int
	DroppedInvalid   int
	DroppedTooShort  int
	DroppedTooLong   int
	DroppedOutside   int
	RepairedGeometry int
	Kept             int
}

func (s SanitizeStats) Dropped() int {
	return s.DroppedNoGeom + s.DroppedInvalid + s.DroppedTooShort + s.DroppedTooLong + s.DroppedOutside
}

// sanitize filters raw segments down to the set the rest of the pipeline can
// trust. Degenerate geometries are repaired where possible and dropped where
// not, segments with implausible lengths or lying outside the service region
// are discarded, and text attributes plus posted speeds are normalized on the
// survivors.
func (f *Factory) sanitize(segments []datastructure.RoadSegment) ([]datastructure.RoadSegment, SanitizeStats) {
	stats := SanitizeStats{Input: len(segments)}
	kept := make([]datastructure.RoadSegment, 0, len(segments))

	for i := range segments {
		seg := &segments[i]

		geom := seg.GetGeometry()
		if len(geom) == 0 {
			stats.DroppedNoGeom++
			continue
		}

		if geom.IsDegenerate() {
			repaired, ok := geom.Repair()
			if !ok {
				stats.DroppedInvalid++
				continue
			}
			stats.RepairedGeometry++
			geom = repaired
			seg.SetGeometry(geom)
		}

		length := geom.Length()
		if length <= f.cfg.MinSegmentLen {
			stats.DroppedTooShort++
			continue
		}
		if length >= f.cfg.MaxSegmentLen {
			stats.DroppedTooLong++
			continue
		}

		if !f.insideRegion(geom) {
			stats.DroppedOutside++
			continue
		}

		f.normalizeAttributes(seg)
		kept = append(kept, *seg)
	}

	stats.Kept = len(kept)
	f.log.Info("sanitized road segments",
		zap.Int("input", stats.Input),
		zap.Int("kept", stats.Kept),
		zap.Int("dropped", stats.Dropped()),
		zap.Int("noGeometry", stats.DroppedNoGeom),
		zap.Int("invalid", stats.DroppedInvalid),
		zap.Int("tooShort", stats.DroppedTooShort),
		zap.Int("tooLong", stats.DroppedTooLong),
		zap.Int("outsideRegion", stats.DroppedOutside),
		zap.Int("repaired", stats.RepairedGeometry))

	return kept, stats
}

// insideRegion keeps a segment as soon as one of its vertices lies inside the
// service region. Input coordinates are lon/lat at this stage, so x is the
// longitude axis.
func (f *Factory) insideRegion(geom datastructure.Polyline) bool {
	for _, p := range geom {
		if f.region.Contains(p.GetY(), p.GetX()) {
			return true
		}
	}
	return false
}

// normalizeAttributes title-cases the categorical attributes and maps the
// source data's null spellings onto one sentinel value. Posted speeds outside
// the plausible window are demoted to missing so the cost model falls back to
// the class default instead of trusting garbage.
func (f *Factory) normalizeAttributes(seg *datastructure.RoadSegment) {
	seg.SetAttributes(
		cleanAttr(seg.GetRoadClass()),
		cleanAttr(seg.GetPavSurf()),
		cleanAttr(seg.GetPavStatus()),
		cleanAttr(seg.GetTrafficDir()),
	)

	speed := seg.GetSpeedKPH()
	if math.IsNaN(speed) || speed < f.cfg.PostedSpeedMinKPH || speed > f.cfg.PostedSpeedMaxKPH {
		seg.SetSpeedKPH(0)
	}
}

func cleanAttr(raw string) string {
	cleaned := util.TitleCase(raw)
	switch cleaned {
	case "", "None", "Nan", "Null":
		return pkg.CLASS_UNKNOWN
	}
	return cleaned
}
