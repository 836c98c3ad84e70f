package response

// SeedCount reports what one seeding step changed.
type SeedCount struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type SeedResponse struct {
	Prices    SeedCount `json:"prices"`
	Movies    SeedCount `json:"movies"`
	Admins    SeedCount `json:"admins"`
	Customers SeedCount `json:"customers"`
	Reviews   SeedCount `json:"reviews"`
	Errors    []string  `json:"errors,omitempty"`
}
