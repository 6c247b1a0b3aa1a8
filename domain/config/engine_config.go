package config

import (
	"fmt"
	"math"
	"time"
)

// SoftLinkRanking selects how the next thread is chosen at a feed handoff
type SoftLinkRanking string

const (
	RankingFirstFound SoftLinkRanking = "first"
	RankingEngagement SoftLinkRanking = "engagement"
)

// EngineConfig holds the tunable constants of the navigation engine
type EngineConfig struct {
	// Spatial layout
	RadiusStep         float64 `yaml:"radius_step"`
	MaxDepth           int     `yaml:"max_depth"`
	FanArc             float64 `yaml:"fan_arc"`
	RootAngle          float64 `yaml:"root_angle"`
	DistantLimit       int     `yaml:"distant_limit"`
	DistantRadiusMin   float64 `yaml:"distant_radius_min"`
	DistantRadiusMax   float64 `yaml:"distant_radius_max"`
	IncludeSoftPass    bool    `yaml:"include_soft_pass"`
	IncludeDistantPass bool    `yaml:"include_distant_pass"`

	// Viewport
	CullPadding   float64       `yaml:"cull_padding"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	MinZoom       float64       `yaml:"min_zoom"`
	MaxZoom       float64       `yaml:"max_zoom"`

	// Thread assembly
	MaxChainHydration int             `yaml:"max_chain_hydration"`
	SoftLinkRanking   SoftLinkRanking `yaml:"soft_link_ranking"`
	FeedLimit         int             `yaml:"feed_limit"`
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		RadiusStep:         120,
		MaxDepth:           4,
		FanArc:             0.8 * math.Pi,
		RootAngle:          -math.Pi / 2,
		DistantLimit:       20,
		DistantRadiusMin:   800,
		DistantRadiusMax:   1200,
		IncludeSoftPass:    true,
		IncludeDistantPass: true,

		CullPadding:   200,
		FrameInterval: 16 * time.Millisecond,
		MinZoom:       0.5,
		MaxZoom:       3.0,

		MaxChainHydration: 200,
		SoftLinkRanking:   RankingFirstFound,
		FeedLimit:         100,
	}
}

// ProductionEngineConfig returns production-specific configuration
func ProductionEngineConfig() *EngineConfig {
	cfg := DefaultEngineConfig()

	// Keep remote fan-out bounded
	cfg.MaxChainHydration = 100
	cfg.FeedLimit = 50

	return cfg
}

// DevelopmentEngineConfig returns development-specific configuration
func DevelopmentEngineConfig() *EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.SoftLinkRanking = RankingEngagement
	return cfg
}

// LoadEngineConfig loads engine configuration based on environment
func LoadEngineConfig(environment string) *EngineConfig {
	switch environment {
	case "production":
		return ProductionEngineConfig()
	case "development":
		return DevelopmentEngineConfig()
	default:
		return DefaultEngineConfig()
	}
}

// Validate checks if the configuration is valid
func (c *EngineConfig) Validate() error {
	if c.RadiusStep <= 0 {
		return fmt.Errorf("radius_step must be positive, got %v", c.RadiusStep)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.FanArc <= 0 || c.FanArc > 2*math.Pi {
		return fmt.Errorf("fan_arc must be in (0, 2π], got %v", c.FanArc)
	}
	if c.DistantLimit < 0 {
		return fmt.Errorf("distant_limit must not be negative, got %d", c.DistantLimit)
	}
	if c.DistantRadiusMin > c.DistantRadiusMax {
		return fmt.Errorf("distant radius range is inverted: [%v, %v]", c.DistantRadiusMin, c.DistantRadiusMax)
	}
	if c.MinZoom <= 0 || c.MinZoom > c.MaxZoom {
		return fmt.Errorf("zoom range is invalid: [%v, %v]", c.MinZoom, c.MaxZoom)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval)
	}
	switch c.SoftLinkRanking {
	case RankingFirstFound, RankingEngagement:
	default:
		return fmt.Errorf("unknown soft_link_ranking %q", c.SoftLinkRanking)
	}
	return nil
}

// ClampZoom keeps a zoom level within the configured range
func (c *EngineConfig) ClampZoom(zoom float64) float64 {
	return math.Max(c.MinZoom, math.Min(c.MaxZoom, zoom))
}
