package submission

import (
	"strings"

	"bluecarbon/internal/project"
	"bluecarbon/internal/services"
)

// Form carries the user-entered fields for one submission.
type Form struct {
	FarmerName     string
	AreaHectares   float64
	NumPlants      int
	PlantationType project.PlantationType
	Location       string
	Latitude       *float64
	Longitude      *float64
	DataSource     project.DataSource
	FormatType     project.FormatType
}

// Validate checks the required fields client-side before any network call.
func (f Form) Validate() error {
	var missing []string
	if strings.TrimSpace(f.FarmerName) == "" {
		missing = append(missing, "farmer name")
	}
	if f.AreaHectares <= 0 {
		missing = append(missing, "area (hectares)")
	}
	if f.NumPlants <= 0 {
		missing = append(missing, "plant count")
	}
	if strings.TrimSpace(f.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "submission", "validate form",
			"required fields missing: "+strings.Join(missing, ", "), nil)
	}
	if f.PlantationType != "" {
		if _, ok := project.ParsePlantationType(string(f.PlantationType)); !ok {
			return services.Wrap(services.ErrValidation, "submission", "validate form",
				"unknown plantation type "+string(f.PlantationType), nil)
		}
	}
	return nil
}

// Details converts the form into the registry's plantation details payload.
func (f Form) Details() project.PlantationDetails {
	return project.PlantationDetails{
		AreaHectares:   f.AreaHectares,
		NumPlants:      f.NumPlants,
		PlantationType: f.PlantationType,
		Location:       strings.TrimSpace(f.Location),
		Latitude:       f.Latitude,
		Longitude:      f.Longitude,
		DataSource:     f.DataSource,
		FormatType:     f.FormatType,
	}
}
