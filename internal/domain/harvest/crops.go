package harvest

import (
	"sort"
	"strings"
)

// Tool is a piece of harvesting equipment available for rent.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RentalCost  int    `json:"rentalCost"`
}

// Storage describes post-harvest storage.
type Storage struct {
	Facility     string   `json:"facility"`
	Requirements []string `json:"requirements"`
	Duration     string   `json:"duration"`
}

// Conditions are the ideal harvesting conditions.
type Conditions struct {
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"windSpeed"`
}

// Seasonality is the typical crop calendar.
type Seasonality struct {
	PlantingMonth   string `json:"plantingMonth"`
	HarvestingMonth string `json:"harvestingMonth"`
	GrowthDuration  string `json:"growthDuration"`
}

// CropProfile is the static harvesting data of one crop. Yield is in tons
// per acre and cost in rupees per acre.
type CropProfile struct {
	Key             string      `json:"key"`
	Name            string      `json:"name"`
	YieldPerAcre    float64     `json:"yieldPerAcre"`
	CostPerAcre     float64     `json:"costPerAcre"`
	Equipment       []string    `json:"equipment"`
	Tools           []Tool      `json:"tools"`
	Storage         Storage     `json:"storage"`
	HarvestingTips  []string    `json:"harvestingTips"`
	SpeedTips       []string    `json:"speedTips"`
	IdealConditions Conditions  `json:"idealConditions"`
	Seasonality     Seasonality `json:"seasonality"`
}

var crops = map[string]CropProfile{
	"wheat": {
		Key: "wheat", Name: "Wheat", YieldPerAcre: 0.5, CostPerAcre: 1000,
		Equipment: []string{"Combine Harvester", "Grain Cart", "Truck"},
		Tools: []Tool{
			{Name: "Combine Harvester", Description: "For efficient large-scale harvesting", RentalCost: 5000},
			{Name: "Grain Cart", Description: "For collecting and transporting harvested wheat", RentalCost: 2000},
		},
		Storage: Storage{
			Facility:     "Dry, ventilated silo",
			Requirements: []string{"Temperature: 15-20°C", "Humidity: 12-14%", "Ventilation: Good airflow"},
			Duration:     "Up to 6 months",
		},
		HarvestingTips: []string{
			"Best harvested when grain moisture content is below 14%",
			"Early morning harvesting recommended",
			"Check weather forecast before starting",
		},
		SpeedTips: []string{
			"Use mechanized tools during peak dry hours",
			"Ensure equipment is well-maintained before harvest",
			"Plan your harvesting pattern to minimize turning time",
		},
		IdealConditions: Conditions{Temperature: "20-25°C", Humidity: "50-60%", WindSpeed: "Less than 20 km/h"},
		Seasonality:     Seasonality{PlantingMonth: "November", HarvestingMonth: "April", GrowthDuration: "140-160 days"},
	},
	"rice": {
		Key: "rice", Name: "Rice", YieldPerAcre: 0.8, CostPerAcre: 1200,
		Equipment: []string{"Rice Harvester", "Sickle", "Thresher"},
		Tools: []Tool{
			{Name: "Rice Harvester", Description: "For mechanical harvesting of rice", RentalCost: 6000},
			{Name: "Sickle", Description: "For manual harvesting in smaller areas", RentalCost: 100},
			{Name: "Thresher", Description: "For separating grains from stalks", RentalCost: 3000},
		},
		Storage: Storage{
			Facility:     "Cool, moisture-free warehouse",
			Requirements: []string{"Temperature: 10-15°C", "Humidity: 10-12%", "Protection from pests"},
			Duration:     "Up to 12 months",
		},
		HarvestingTips: []string{
			"Harvest when 80-85% of grains are straw-colored",
			"Drain the field 7-10 days before harvesting",
			"Avoid harvesting in rain",
		},
		SpeedTips: []string{
			"Harvest in early morning to minimize grain losses",
			"Use proper drainage before harvesting",
			"Coordinate with labor team for efficient collection",
		},
		IdealConditions: Conditions{Temperature: "25-30°C", Humidity: "60-80%", WindSpeed: "Less than 15 km/h"},
		Seasonality:     Seasonality{PlantingMonth: "June", HarvestingMonth: "November", GrowthDuration: "120-140 days"},
	},
	"corn": {
		Key: "corn", Name: "Corn", YieldPerAcre: 0.6, CostPerAcre: 800,
		Equipment: []string{"Corn Harvester", "Grain Cart", "Moisture Meter"},
		Tools: []Tool{
			{Name: "Corn Harvester", Description: "For efficient corn harvesting", RentalCost: 5500},
			{Name: "Moisture Meter", Description: "For checking grain moisture content", RentalCost: 500},
		},
		Storage: Storage{
			Facility:     "Well-ventilated silo with temperature control",
			Requirements: []string{"Temperature: 10-15°C", "Humidity: 13-15%", "Regular monitoring"},
			Duration:     "Up to 8 months",
		},
		HarvestingTips: []string{
			"Harvest when kernels show black layer formation",
			"Monitor moisture content regularly",
			"Start with driest fields first",
		},
		SpeedTips: []string{
			"Monitor grain moisture content regularly",
			"Use proper combine settings for minimal damage",
			"Plan harvest when moisture content is optimal",
		},
		IdealConditions: Conditions{Temperature: "20-25°C", Humidity: "50-70%", WindSpeed: "Less than 25 km/h"},
		Seasonality:     Seasonality{PlantingMonth: "March", HarvestingMonth: "August", GrowthDuration: "100-120 days"},
	},
	"soybean": {
		Key: "soybean", Name: "Soybean", YieldPerAcre: 0.4, CostPerAcre: 900,
		Equipment: []string{"Combine Harvester", "Flex Header", "Grain Cart"},
		Tools: []Tool{
			{Name: "Combine Harvester", Description: "For efficient soybean harvesting", RentalCost: 5000},
			{Name: "Reel", Description: "For gathering and cutting soybean plants", RentalCost: 1500},
		},
		Storage: Storage{
			Facility:     "Clean, dry storage bins",
			Requirements: []string{"Temperature: 12-18°C", "Humidity: 11-13%", "Good aeration"},
			Duration:     "Up to 10 months",
		},
		HarvestingTips: []string{
			"Harvest when pods are brown and dry",
			"Moisture content should be below 13%",
			"Avoid harvesting during wet conditions",
		},
		SpeedTips: []string{
			"Wait for proper pod maturity",
			"Harvest when moisture content is 13-15%",
			"Adjust combine settings for minimal pod shattering",
		},
		IdealConditions: Conditions{Temperature: "22-28°C", Humidity: "45-65%", WindSpeed: "Less than 20 km/h"},
		Seasonality:     Seasonality{PlantingMonth: "June", HarvestingMonth: "October", GrowthDuration: "90-120 days"},
	},
	"cotton": {
		Key: "cotton", Name: "Cotton", YieldPerAcre: 0.3, CostPerAcre: 1500,
		Equipment: []string{"Cotton Picker", "Module Builder"},
		Tools: []Tool{
			{Name: "Cotton Picker", Description: "For mechanical cotton harvesting", RentalCost: 7000},
			{Name: "Module Builder", Description: "For compressing harvested cotton", RentalCost: 3000},
		},
		Storage: Storage{
			Facility:     "Dry, covered storage area",
			Requirements: []string{"Temperature: 15-20°C", "Humidity: 45-50%", "Protection from contamination"},
			Duration:     "Up to 12 months",
		},
		HarvestingTips: []string{
			"Harvest when 60% or more bolls are open",
			"Avoid harvesting wet cotton",
			"Remove debris before storage",
		},
		SpeedTips:       []string{},
		IdealConditions: Conditions{Temperature: "25-30°C", Humidity: "40-60%", WindSpeed: "Less than 15 km/h"},
		Seasonality:     Seasonality{PlantingMonth: "April", HarvestingMonth: "October", GrowthDuration: "150-180 days"},
	},
	"sugarcane": {
		Key: "sugarcane", Name: "Sugarcane", YieldPerAcre: 2.5, CostPerAcre: 2000,
		Equipment: []string{"Sugarcane Harvester", "Cane Loader"},
		Tools: []Tool{
			{Name: "Sugarcane Harvester", Description: "For mechanical cane cutting", RentalCost: 8000},
			{Name: "Cane Loader", Description: "For loading cut cane onto transport", RentalCost: 4000},
		},
		Storage: Storage{
			Facility:     "Processing within 24 hours",
			Requirements: []string{"Immediate transport to mill", "Keep cane fresh and clean", "Avoid prolonged storage"},
			Duration:     "Process within 24 hours",
		},
		HarvestingTips: []string{
			"Cut at ground level",
			"Remove dry leaves before cutting",
			"Transport to mill quickly",
		},
		SpeedTips:       []string{},
		IdealConditions: Conditions{Temperature: "28-32°C", Humidity: "60-80%", WindSpeed: "Less than 25 km/h"},
		Seasonality:     Seasonality{PlantingMonth: "March", HarvestingMonth: "January", GrowthDuration: "300-360 days"},
	},
}

var aliases = map[string]string{
	"soybeans": "soybean",
	"maize":    "corn",
	"paddy":    "rice",
}

// Lookup finds a crop by key or display name, ignoring case.
func Lookup(name string) (CropProfile, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	profile, ok := crops[key]
	return profile, ok
}

// Crops lists every known crop ordered by key.
func Crops() []CropProfile {
	out := make([]CropProfile, 0, len(crops))
	for _, profile := range crops {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
