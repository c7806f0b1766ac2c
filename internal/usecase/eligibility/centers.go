package eligibility

// Center is a neighborhood center anchoring the service area.
type Center struct {
	Name string
	Lat  float64
	Lng  float64
}

// neighborhoodCenters lists the program's partner sites. Applicants must live
// within the configured radius of at least one of them.
var neighborhoodCenters = []Center{
	{Name: "Callahan", Lat: 28.5449, Lng: -81.3856},
	{Name: "Hankins Park", Lat: 28.5336, Lng: -81.3993},
	{Name: "Northwest", Lat: 28.5705, Lng: -81.4241},
	{Name: "Rosemont", Lat: 28.5940, Lng: -81.4502},
	{Name: "Smith", Lat: 28.5385, Lng: -81.4200},
	{Name: "Citrus Square", Lat: 28.4912, Lng: -81.2944},
	{Name: "Engelwood", Lat: 28.5393, Lng: -81.2970},
	{Name: "Jackson", Lat: 28.5386, Lng: -81.3939},
	{Name: "L Claudia Allen", Lat: 28.5253, Lng: -81.4233},
	{Name: "Grand Ave", Lat: 28.5248, Lng: -81.3997},
	{Name: "Ivey Lane", Lat: 28.5383, Lng: -81.4555},
	{Name: "Langford", Lat: 28.5424, Lng: -81.3555},
	{Name: "Rock Lake", Lat: 28.5432, Lng: -81.3911},
	{Name: "Wadeview", Lat: 28.5154, Lng: -81.3748},
	{Name: "Dover Shores", Lat: 28.5282, Lng: -81.3205},
	{Name: "RISE", Lat: 28.5531, Lng: -81.4002},
	{Name: "HOLA", Lat: 28.5481, Lng: -81.3442},
}
