package schema

// constructionOptions follows the ISO construction classes.
var constructionOptions = []Option{
	{Value: "frame", Label: "Frame"},
	{Value: "joisted_masonry", Label: "Joisted Masonry"},
	{Value: "non_combustible", Label: "Non-Combustible"},
	{Value: "masonry_non_combustible", Label: "Masonry Non-Combustible"},
	{Value: "modified_fire_resistive", Label: "Modified Fire Resistive"},
	{Value: "fire_resistive", Label: "Fire Resistive"},
}

var occupancyOptions = []Option{
	{Value: "office", Label: "Office"},
	{Value: "retail", Label: "Retail"},
	{Value: "warehouse", Label: "Warehouse"},
	{Value: "manufacturing", Label: "Manufacturing"},
	{Value: "habitational", Label: "Habitational"},
	{Value: "vacant", Label: "Vacant"},
}

var yesNoOptions = []Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

// Locations returns the location-schedule schema. extraAliases lets config
// extend the header alias table.
func Locations(extraAliases map[string]string) *Schema {
	s, err := New([]Column{
		{Key: "location_name", Label: "Location Name", Width: 24, Type: TypeText, Searchable: true},
		{Key: "company", Label: "Company", Width: 20, Type: TypeText, Searchable: true},
		{Key: "street_address", Label: "Street Address", Width: 26, Type: TypeText, Searchable: true},
		{Key: "city", Label: "City", Width: 14, Type: TypeText, Searchable: true},
		{Key: "state", Label: "State", Width: 6, Type: TypeText, Searchable: true},
		{Key: "zip", Label: "Zip", Width: 8, Type: TypeText},
		{Key: "building_value", Label: "Building Value", Width: 14, Type: TypeCurrency},
		{Key: "contents_value", Label: "Contents Value", Width: 14, Type: TypeCurrency},
		{Key: "business_income", Label: "Business Income", Width: 15, Type: TypeCurrency},
		{Key: "square_footage", Label: "Square Footage", Width: 14, Type: TypeNumber},
		{Key: "year_built", Label: "Year Built", Width: 10, Type: TypeNumber},
		{Key: "construction_type", Label: "Construction Type", Width: 18, Type: TypeSelect, Options: constructionOptions},
		{Key: "occupancy", Label: "Occupancy", Width: 14, Type: TypeSelect, Options: occupancyOptions},
		{Key: "sprinklered", Label: "Sprinklered", Width: 11, Type: TypeSelect, Options: yesNoOptions},
		{Key: "acquired_date", Label: "Acquired Date", Width: 13, Type: TypeDate},
	}, extraAliases)
	if err != nil {
		// The literal above is validated by schema tests; a failure here is a
		// programming error.
		panic(err)
	}
	return s
}
