package factory

import (
	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

type PhysicsStats struct {
	PostedSpeedUsed int
	ClassDefaults   int
	SurfacePenalty  int
	FerryOverride   int
	FlooredSpeeds   int
}

// applyPhysics turns each edge's projected geometry plus attributes into the
// three cost fields. The rule order matters: pick a base speed, degrade it for
// bad surfaces, let the ferry override win over everything, then floor it.
// Travel time is derived last and ferries pay a fixed boarding wait on top.
func (f *Factory) applyPhysics(edges []*datastructure.Edge, posted []float64) PhysicsStats {
	var stats PhysicsStats

	for i, e := range edges {
		meta := e.GetMeta()

		speed := posted[i]
		if speed > 0 {
			stats.PostedSpeedUsed++
		} else {
			speed = f.classDefaultSpeed(meta.RoadClass)
			stats.ClassDefaults++
		}

		if meta.PavStatus == pkg.STATUS_UNPAVED || pkg.IsBadSurface(meta.PavSurf) {
			speed *= f.cfg.SurfacePenalty
			stats.SurfacePenalty++
		}

		if meta.Ferry {
			speed = f.cfg.FerrySpeedKPH
			stats.FerryOverride++
		}

		if speed < f.cfg.SpeedFloorKPH {
			speed = f.cfg.SpeedFloorKPH
			stats.FlooredSpeeds++
		}

		lengthM := e.GetGeometry().Length()
		e.SetCost(f.roundedCost(lengthM, speed, meta.Ferry))
	}

	f.log.Info("applied cost model",
		zap.Int("edges", len(edges)),
		zap.Int("postedSpeedUsed", stats.PostedSpeedUsed),
		zap.Int("classDefaults", stats.ClassDefaults),
		zap.Int("surfacePenalized", stats.SurfacePenalty),
		zap.Int("ferryOverrides", stats.FerryOverride),
		zap.Int("flooredSpeeds", stats.FlooredSpeeds))

	return stats
}

func (f *Factory) classDefaultSpeed(roadClass string) float64 {
	if v, ok := f.cfg.ClassDefaultSpeeds[roadClass]; ok {
		return v
	}
	return f.cfg.FallbackSpeedKPH
}

// roundedCost converts a planar length and a modeled speed into the stored
// cost triple. Lengths are kept to centimeters, travel times to thousandths
// of a minute and speeds to one decimal, which is all the precision the
// source data supports.
func (f *Factory) roundedCost(lengthM, speedKPH float64, ferry bool) (float64, float64, float64) {
	timeMin := lengthM / pkg.METERS_PER_KM / speedKPH * pkg.MINUTES_PER_HOUR
	if ferry {
		timeMin += f.cfg.FerryWaitMin
	}
	return util.RoundFloat(lengthM, 2), util.RoundFloat(speedKPH, 1), util.RoundFloat(timeMin, 3)
}
