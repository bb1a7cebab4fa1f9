package store

import "context"

// SeedDemo inserts a small demo schedule for the org/client when it has no
// records yet. Idempotent and safe to run on every startup.
func (s *SQLite) SeedDemo(ctx context.Context, orgID, clientID string) error {
	existing, err := s.List(ctx, orgID, clientID)
	if err != nil || len(existing) > 0 {
		return err
	}
	demo := []map[string]any{
		{
			"location_name": "Headquarters", "company": "Acme Industrial",
			"street_address": "100 Commerce Way", "city": "Dallas", "state": "TX", "zip": "75201",
			"building_value": 4_250_000.0, "contents_value": 1_100_000.0,
			"square_footage": 82_000.0, "year_built": 1998.0,
			"construction_type": "masonry_non_combustible", "occupancy": "office",
			"sprinklered": "yes", "acquired_date": "2012-06-01",
		},
		{
			"location_name": "Distribution Center", "company": "Acme Industrial",
			"street_address": "4410 Freight Rd", "city": "Fort Worth", "state": "TX", "zip": "76102",
			"building_value": 7_800_000.0, "contents_value": 5_400_000.0,
			"business_income": 2_000_000.0, "square_footage": 240_000.0, "year_built": 2008.0,
			"construction_type": "non_combustible", "occupancy": "warehouse",
			"sprinklered": "yes", "acquired_date": "2015-03-15",
		},
		{
			"location_name": "Plant 2", "company": "Acme Industrial",
			"street_address": "78 Mill St", "city": "Tulsa", "state": "OK", "zip": "74103",
			"building_value": 3_100_000.0, "square_footage": 96_000.0, "year_built": 1976.0,
			"construction_type": "joisted_masonry", "occupancy": "manufacturing",
			"sprinklered": "no",
		},
	}
	_, err = s.InsertMany(ctx, orgID, clientID, demo)
	return err
}
