package factory

import (
	"runtime"
	"strconv"
	"time"

	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/util"
	"github.com/spf13/viper"
)

// Envelope is the valid coordinate window of the target projection. Nodes
// landing outside it are projection artifacts from bad source rows.
type Envelope struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func (env Envelope) Contains(x, y float64) bool {
	return x >= env.MinX && x <= env.MaxX && y >= env.MinY && y <= env.MaxY
}

type Config struct {
	// topology snapping. rounding endpoint coordinates to this many decimals
	// merges intersections split by floating-point noise; tune it against the
	// unit scale of the input coordinates (6 suits degrees, 1 suits meters).
	SnapDecimals uint

	// sanitizer
	RegionMinLat, RegionMinLon float64
	RegionMaxLat, RegionMaxLon float64
	MinSegmentLen              float64 // native input units
	MaxSegmentLen              float64

	// cost model
	ClassDefaultSpeeds map[string]float64
	FallbackSpeedKPH   float64
	PostedSpeedMinKPH  float64 // posted speeds outside [min, max] count as missing
	PostedSpeedMaxKPH  float64
	SurfacePenalty     float64
	FerrySpeedKPH      float64
	FerryWaitMin       float64
	SpeedFloorKPH      float64

	// projection + purge
	UTMZone            int
	PurgeEnvelope      Envelope
	EdgeLengthCeilingM float64

	// consolidation
	ConsolidationToleranceM    float64
	ConsolidationMaxComponents int

	// batch routing. a zero ChunkTimeout lets chunks run to completion.
	NumWorkers   int
	ChunkSize    int
	ChunkTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		SnapDecimals: 6,

		RegionMinLat:  48.0,
		RegionMinLon:  -140.0,
		RegionMaxLat:  62.0,
		RegionMaxLon:  -110.0,
		MinSegmentLen: 0.00001,
		MaxSegmentLen: 2.0,

		ClassDefaultSpeeds: map[string]float64{
			pkg.CLASS_FREEWAY:    90,
			pkg.CLASS_EXPRESSWAY: 90,
			pkg.CLASS_ARTERIAL:   60,
			pkg.CLASS_COLLECTOR:  50,
			pkg.CLASS_LOCAL:      40,
			pkg.CLASS_RESOURCE:   30,
			pkg.CLASS_FERRY:      10,
		},
		FallbackSpeedKPH:  40,
		PostedSpeedMinKPH: 5,
		PostedSpeedMaxKPH: 130,
		SurfacePenalty:    0.6,
		FerrySpeedKPH:     10,
		FerryWaitMin:      30,
		SpeedFloorKPH:     10,

		UTMZone: 10,
		PurgeEnvelope: Envelope{
			MinX: 100000, MaxX: 900000,
			MinY: 4000000, MaxY: 10000000,
		},
		EdgeLengthCeilingM: 220000,

		ConsolidationToleranceM:    15,
		ConsolidationMaxComponents: 25000,

		NumWorkers: runtime.NumCPU(),
		ChunkSize:  100,
	}
}

// NewConfigFromViper materializes the option surface from the config file,
// falling back to the built-in defaults for anything unset.
func NewConfigFromViper() *Config {
	cfg := DefaultConfig()

	viper.SetDefault("TOPOLOGY_SNAP_DECIMALS", cfg.SnapDecimals)
	viper.SetDefault("REGION_MIN_LAT", cfg.RegionMinLat)
	viper.SetDefault("REGION_MIN_LON", cfg.RegionMinLon)
	viper.SetDefault("REGION_MAX_LAT", cfg.RegionMaxLat)
	viper.SetDefault("REGION_MAX_LON", cfg.RegionMaxLon)
	viper.SetDefault("MIN_SEGMENT_LEN", cfg.MinSegmentLen)
	viper.SetDefault("MAX_SEGMENT_LEN", cfg.MaxSegmentLen)
	viper.SetDefault("FALLBACK_SPEED_KPH", cfg.FallbackSpeedKPH)
	viper.SetDefault("POSTED_SPEED_MIN_KPH", cfg.PostedSpeedMinKPH)
	viper.SetDefault("POSTED_SPEED_MAX_KPH", cfg.PostedSpeedMaxKPH)
	viper.SetDefault("SURFACE_PENALTY", cfg.SurfacePenalty)
	viper.SetDefault("FERRY_SPEED_KPH", cfg.FerrySpeedKPH)
	viper.SetDefault("FERRY_WAIT_MIN", cfg.FerryWaitMin)
	viper.SetDefault("SPEED_FLOOR_KPH", cfg.SpeedFloorKPH)
	viper.SetDefault("UTM_ZONE", cfg.UTMZone)
	viper.SetDefault("PURGE_MIN_X", cfg.PurgeEnvelope.MinX)
	viper.SetDefault("PURGE_MAX_X", cfg.PurgeEnvelope.MaxX)
	viper.SetDefault("PURGE_MIN_Y", cfg.PurgeEnvelope.MinY)
	viper.SetDefault("PURGE_MAX_Y", cfg.PurgeEnvelope.MaxY)
	viper.SetDefault("EDGE_LENGTH_CEILING_M", cfg.EdgeLengthCeilingM)
	viper.SetDefault("CONSOLIDATION_TOLERANCE_M", cfg.ConsolidationToleranceM)
	viper.SetDefault("CONSOLIDATION_MAX_COMPONENTS", cfg.ConsolidationMaxComponents)
	viper.SetDefault("NUM_WORKERS", cfg.NumWorkers)
	viper.SetDefault("CHUNK_SIZE", cfg.ChunkSize)
	viper.SetDefault("CHUNK_TIMEOUT", cfg.ChunkTimeout)

	cfg.SnapDecimals = viper.GetUint("TOPOLOGY_SNAP_DECIMALS")
	cfg.RegionMinLat = viper.GetFloat64("REGION_MIN_LAT")
	cfg.RegionMinLon = viper.GetFloat64("REGION_MIN_LON")
	cfg.RegionMaxLat = viper.GetFloat64("REGION_MAX_LAT")
	cfg.RegionMaxLon = viper.GetFloat64("REGION_MAX_LON")
	cfg.MinSegmentLen = viper.GetFloat64("MIN_SEGMENT_LEN")
	cfg.MaxSegmentLen = viper.GetFloat64("MAX_SEGMENT_LEN")
	cfg.FallbackSpeedKPH = viper.GetFloat64("FALLBACK_SPEED_KPH")
	cfg.PostedSpeedMinKPH = viper.GetFloat64("POSTED_SPEED_MIN_KPH")
	cfg.PostedSpeedMaxKPH = viper.GetFloat64("POSTED_SPEED_MAX_KPH")
	cfg.SurfacePenalty = viper.GetFloat64("SURFACE_PENALTY")
	cfg.FerrySpeedKPH = viper.GetFloat64("FERRY_SPEED_KPH")
	cfg.FerryWaitMin = viper.GetFloat64("FERRY_WAIT_MIN")
	cfg.SpeedFloorKPH = viper.GetFloat64("SPEED_FLOOR_KPH")
	cfg.UTMZone = viper.GetInt("UTM_ZONE")
	cfg.PurgeEnvelope.MinX = viper.GetFloat64("PURGE_MIN_X")
	cfg.PurgeEnvelope.MaxX = viper.GetFloat64("PURGE_MAX_X")
	cfg.PurgeEnvelope.MinY = viper.GetFloat64("PURGE_MIN_Y")
	cfg.PurgeEnvelope.MaxY = viper.GetFloat64("PURGE_MAX_Y")
	cfg.EdgeLengthCeilingM = viper.GetFloat64("EDGE_LENGTH_CEILING_M")
	cfg.ConsolidationToleranceM = viper.GetFloat64("CONSOLIDATION_TOLERANCE_M")
	cfg.ConsolidationMaxComponents = viper.GetInt("CONSOLIDATION_MAX_COMPONENTS")
	cfg.NumWorkers = viper.GetInt("NUM_WORKERS")
	cfg.ChunkSize = viper.GetInt("CHUNK_SIZE")
	cfg.ChunkTimeout = viper.GetDuration("CHUNK_TIMEOUT")

	// viper lowercases map keys, so normalize them back to the cleaned
	// road-class spelling the cost model looks up
	if speeds := viper.GetStringMapString("CLASS_DEFAULT_SPEEDS"); len(speeds) > 0 {
		parsed := make(map[string]float64, len(speeds))
		for class, raw := range speeds {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				parsed[util.TitleCase(class)] = v
			}
		}
		cfg.ClassDefaultSpeeds = parsed
	}

	return cfg
}
