package taxonomy

// defaultDefinitions is the built-in career field table, loosely following the
// twenty NAICS sectors. Keywords are matched as plain substrings.
var defaultDefinitions = []Definition{
	{
		Key:  "agriculture_forestry",
		Name: "Agriculture, Forestry, Fishing and Hunting",
		Keywords: []string{
			"farm", "agricultur", "crop", "livestock", "forest", "fishing", "hunting", "ranch",
			"harvest", "orchard", "dairy", "timber", "veterinar",
		},
	},
	{
		Key:  "mining_oil_gas",
		Name: "Mining, Quarrying, and Oil and Gas Extraction",
		Keywords: []string{
			"mining", "miner", "quarry", "oil", "gas", "drilling", "petroleum", "extraction",
			"geolog", "coal",
		},
	},
	{
		Key:  "utilities",
		Name: "Utilities",
		Keywords: []string{
			"utility", "utilities", "electric", "power plant", "water treatment", "sewage", "grid",
			"energy", "solar", "wind turbine", "lineman",
		},
	},
	{
		Key:  "construction",
		Name: "Construction",
		Keywords: []string{
			"construction", "builder", "carpenter", "plumb", "electrician", "mason", "roofing",
			"contractor", "welder", "architect", "scaffold", "concrete",
		},
	},
	{
		Key:  "manufacturing",
		Name: "Manufacturing",
		Keywords: []string{
			"manufactur", "factory", "assembly", "machinist", "production line", "fabricat",
			"industrial", "quality control", "cnc", "plant operator",
		},
	},
	{
		Key:  "wholesale_trade",
		Name: "Wholesale Trade",
		Keywords: []string{
			"wholesale", "distributor", "distribution", "supplier", "procurement", "bulk",
			"import", "export", "purchasing agent",
		},
	},
	{
		Key:  "retail_trade",
		Name: "Retail Trade",
		Keywords: []string{
			"retail", "store", "cashier", "sales associate", "merchandis", "shop",
			"customer service", "e-commerce", "boutique",
		},
	},
	{
		Key:  "transportation_warehousing",
		Name: "Transportation and Warehousing",
		Keywords: []string{
			"transport", "truck", "driver", "pilot", "logistic", "warehouse", "shipping",
			"delivery", "freight", "courier", "aviation", "railway",
		},
	},
	{
		Key:  "information",
		Name: "Information",
		Keywords: []string{
			"software", "computer", "web", "data", "network", "programm", "developer", "telecom",
			"broadcast", "journalis", "publish", "media", "cyber", "cloud",
		},
	},
	{
		Key:  "finance_insurance",
		Name: "Finance and Insurance",
		Keywords: []string{
			"financ", "bank", "insurance", "accountant", "accounting", "investment", "loan",
			"credit", "audit", "actuar", "tax", "stock",
		},
	},
	{
		Key:  "real_estate",
		Name: "Real Estate and Rental and Leasing",
		Keywords: []string{
			"real estate", "realtor", "property", "rental", "leasing", "landlord", "tenant",
			"mortgage", "apprais",
		},
	},
	{
		Key:  "professional_scientific",
		Name: "Professional, Scientific, and Technical Services",
		Keywords: []string{
			"engineer", "scientist", "research", "laboratory", "consult", "lawyer", "legal",
			"attorney", "design", "analyst", "marketing",
		},
	},
	{
		Key:  "management",
		Name: "Management of Companies and Enterprises",
		Keywords: []string{
			"manager", "management", "executive", "director", "ceo", "leadership", "strateg",
			"operations",
		},
	},
	{
		Key:  "administrative_support",
		Name: "Administrative and Support and Waste Management",
		Keywords: []string{
			"administrative", "secretary", "receptionist", "clerk", "janitor", "custodian",
			"waste", "recycling", "security guard", "staffing", "office assistant",
		},
	},
	{
		Key:  "educational_services",
		Name: "Educational Services",
		Keywords: []string{
			"teach", "school", "educat", "tutor", "professor", "instructor", "curriculum",
			"student", "classroom", "librar", "lecture",
		},
	},
	{
		Key:  "healthcare_social",
		Name: "Health Care and Social Assistance",
		Keywords: []string{
			"health", "medical", "nurse", "doctor", "physician", "patient", "hospital", "care",
			"clinic", "therap", "pharmac", "dental", "social work", "counsel",
		},
	},
	{
		Key:  "arts_entertainment",
		Name: "Arts, Entertainment, and Recreation",
		Keywords: []string{
			"artist", "music", "actor", "perform", "entertain", "recreation", "sport", "athlete",
			"museum", "theater", "theatre", "paint", "dance", "fitness",
		},
	},
	{
		Key:  "accommodation_food",
		Name: "Accommodation and Food Services",
		Keywords: []string{
			"restaurant", "chef", "cook", "food", "hotel", "hospitality", "bartender", "waiter",
			"waitress", "catering", "baker", "barista", "lodging",
		},
	},
	{
		Key:  "other_services",
		Name: "Other Services (except Public Administration)",
		Keywords: []string{
			"repair", "mechanic", "salon", "barber", "hairdress", "laundry", "funeral",
			"pet groom", "religious", "clergy", "automotive",
		},
	},
	{
		Key:  "public_administration",
		Name: "Public Administration",
		Keywords: []string{
			"government", "public", "police", "firefight", "military", "municipal", "federal",
			"legislat", "civil servant", "policy", "court", "postal",
		},
	},
}

var defaultTaxonomy = mustNew(defaultDefinitions)

// Default returns the built-in taxonomy. The same instance is shared by all callers.
func Default() *Taxonomy {
	return defaultTaxonomy
}

func mustNew(defs []Definition) *Taxonomy {
	t, err := New(defs)
	if err != nil {
		panic("taxonomy: invalid built-in table: " + err.Error())
	}
	return t
}
