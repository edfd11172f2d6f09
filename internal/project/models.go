package project

import (
	"strings"
	"time"
)

// Status represents the review lifecycle of a project as owned by the registry.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

var allStatuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// reviewableStatuses are the statuses a verifier can still act on.
var reviewableStatuses = map[Status]struct{}{
	StatusSubmitted:   {},
	StatusUnderReview: {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further verifier action.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsReviewable reports whether a verifier can still decide on the status.
func (s Status) IsReviewable() bool {
	_, ok := reviewableStatuses[s]
	return ok
}

// PlantationType identifies the restored vegetation class.
type PlantationType string

const (
	PlantationMangrove  PlantationType = "Mangrove"
	PlantationSeagrass  PlantationType = "Seagrass"
	PlantationSaltmarsh PlantationType = "Saltmarsh"
)

// ParsePlantationType matches a value against the known plantation classes,
// ignoring case.
func ParsePlantationType(value string) (PlantationType, bool) {
	for _, pt := range []PlantationType{PlantationMangrove, PlantationSeagrass, PlantationSaltmarsh} {
		if strings.EqualFold(strings.TrimSpace(value), string(pt)) {
			return pt, true
		}
	}
	return "", false
}

// DataSource identifies how the evidence imagery was collected.
type DataSource string

const (
	SourceSatellite   DataSource = "Satellite"
	SourceDrone       DataSource = "Drone"
	SourceSpecialized DataSource = "Specialized"
)

// ParseDataSource matches a value against the known data sources, ignoring case.
func ParseDataSource(value string) (DataSource, bool) {
	for _, ds := range []DataSource{SourceSatellite, SourceDrone, SourceSpecialized} {
		if strings.EqualFold(strings.TrimSpace(value), string(ds)) {
			return ds, true
		}
	}
	return "", false
}

// FormatType identifies the container format of submitted imagery.
type FormatType string

const (
	FormatGeoTIFF FormatType = "GeoTIFF"
	FormatJPEGPNG FormatType = "JPEG/PNG"
	FormatJP2     FormatType = "JP2"
	FormatHDF5    FormatType = "HDF5"
	FormatNetCDF  FormatType = "NetCDF"
)

// ParseFormatType matches a value against the known formats, ignoring case.
func ParseFormatType(value string) (FormatType, bool) {
	for _, ft := range []FormatType{FormatGeoTIFF, FormatJPEGPNG, FormatJP2, FormatHDF5, FormatNetCDF} {
		if strings.EqualFold(strings.TrimSpace(value), string(ft)) {
			return ft, true
		}
	}
	return "", false
}

// PlantationDetails describes the restoration site attached to a project.
type PlantationDetails struct {
	AreaHectares   float64        `json:"area_hectares"`
	NumPlants      int            `json:"num_plants"`
	PlantationType PlantationType `json:"plantation_type"`
	Location       string         `json:"location"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
	DataSource     DataSource     `json:"data_source,omitempty"`
	FormatType     FormatType     `json:"format_type,omitempty"`
}

// Project is one land-owner submission and its scoring/review state as
// returned by the registry. Scored fields stay nil until analysis completes.
type Project struct {
	ID         string            `json:"id"`
	FarmerName string            `json:"farmer_name"`
	Details    PlantationDetails `json:"details"`
	ImageURLs  []string          `json:"image_urls"`
	Status     Status            `json:"status"`

	GrowthPercent    *float64 `json:"growth_percent,omitempty"`
	NDVIScore        *float64 `json:"ndvi_score,omitempty"`
	CO2Tonnes        *float64 `json:"co2_tonnes,omitempty"`
	MeanNDVI         *float64 `json:"mean_ndvi,omitempty"`
	HealthyPct       *float64 `json:"healthy_pct,omitempty"`
	CarbonCredits    *float64 `json:"carbon_credits,omitempty"`
	PricePerTokenUSD *float64 `json:"price_per_token_usd,omitempty"`
	PotentialRevenue *float64 `json:"potential_revenue_usd,omitempty"`
	MaturityPct      *float64 `json:"maturity_pct,omitempty"`
	QualityNotes     string   `json:"quality_notes,omitempty"`
	NDVIMapURL       string   `json:"ndvi_map_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scored reports whether the analysis step has populated any derived metric.
func (p Project) Scored() bool {
	return p.NDVIScore != nil || p.MeanNDVI != nil || p.CarbonCredits != nil
}

// Settings holds the process-wide marketplace configuration persisted by the
// registry. TokenPriceUSD feeds revenue projections in the aggregation engine.
type Settings struct {
	TokenPriceUSD      float64 `json:"token_price_usd"`
	MarketplaceEnabled bool    `json:"marketplace_enabled"`
}

// DefaultSettings mirrors the registry defaults used before an admin saves.
func DefaultSettings() Settings {
	return Settings{TokenPriceUSD: 10, MarketplaceEnabled: true}
}

// Report is the structured per-project MRV report served by the registry.
type Report struct {
	ProjectID     string    `json:"project_id"`
	FarmerName    string    `json:"farmer_name"`
	Status        Status    `json:"status"`
	NDVIScore     *float64  `json:"ndvi_score,omitempty"`
	MeanNDVI      *float64  `json:"mean_ndvi,omitempty"`
	HealthyPct    *float64  `json:"healthy_pct,omitempty"`
	CO2Tonnes     *float64  `json:"co2_tonnes,omitempty"`
	CarbonCredits *float64  `json:"carbon_credits,omitempty"`
	RevenueUSD    *float64  `json:"potential_revenue_usd,omitempty"`
	QualityNotes  string    `json:"quality_notes,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// CatalogAsset is one downloadable artifact referenced by a catalog entry.
type CatalogAsset struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// CatalogEntry is the spatial catalog record for a project: a STAC-style
// item with a bounding box and asset links.
type CatalogEntry struct {
	ID           string                  `json:"id"`
	BBox         []float64               `json:"bbox,omitempty"`
	GeometryType string                  `json:"geometry_type,omitempty"`
	Datetime     time.Time               `json:"datetime"`
	Assets       map[string]CatalogAsset `json:"assets,omitempty"`
}
