package catalog

// Default returns the production catalog: the home-page figure styles and the
// wedding occasion page. Prices mirror the storefront price list; sparse
// entries mean a style is not offered at that size.
func Default() *Catalog {
	return New(homeOccasion(), weddingOccasion())
}

func homeOccasion() Occasion {
	return Occasion{
		ID:    "home",
		Title: "Customize your figure",
		Styles: []Style{
			{
				ID: "1 person", Label: "1 person", Icon: "/images/1person.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Photo"}},
			},
			{
				ID: "2 people", Label: "2 people", Icon: "/images/2person.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Person 1"}, {Role: RolePerson, Label: "Person 2"}},
			},
			{
				ID: "2 people (connected)", Label: "2 people (connected)", Icon: "/images/2personConnected.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Person 1"}, {Role: RolePerson, Label: "Person 2"}},
			},
			{
				ID: "1 pet", Label: "1 pet", Icon: "/images/pet.png",
				Slots: []SlotSpec{{Role: RolePet, Label: "Pet Photo"}},
			},
			{
				ID: "1 person + 1 pet", Label: "1 person + 1 pet", Icon: "/images/1person1pet.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Person"}, {Role: RolePet, Label: "Pet"}},
			},
			{
				ID: "Non-human figure", Label: "Non-human figure", Icon: "/images/nonhuman.png",
				Slots: []SlotSpec{{Role: RoleObject, Label: "Figure Photo"}},
			},
		},
		Pricing: PriceTable{
			"4cm": {
				"1 person":         {Current: "29.95", Original: "75.00"},
				"2 people":         {Current: "55.95", Original: "120.00"},
				"1 pet":            {Current: "29.95", Original: "50.00"},
				"1 person + 1 pet": {Current: "55.95", Original: "90.00"},
				"Non-human figure": {Current: "29.95", Original: "50.00"},
			},
			"6cm": {
				"1 person":             {Current: "39.95", Original: "100.00"},
				"2 people":             {Current: "75.95", Original: "189.00"},
				"2 people (connected)": {Current: "80.95", Original: "130.00"},
				"1 pet":                {Current: "45.95", Original: "80.00"},
				"1 person + 1 pet":     {Current: "75.95", Original: "130.00"},
				"Non-human figure":     {Current: "35.95", Original: "70.00"},
			},
			"8cm": {
				"1 person":             {Current: "79.95", Original: "130.00"},
				"2 people":             {Current: "150.00", Original: "240.00"},
				"2 people (connected)": {Current: "155.00", Original: "250.00"},
				"1 pet":                {Current: "85.95", Original: "140.00"},
				"1 person + 1 pet":     {Current: "150.00", Original: "240.00"},
				"Non-human figure":     {Current: "79.95", Original: "130.00"},
			},
			"10cm": {
				"1 person": {Current: "120.00", Original: "200.00"},
				"2 people": {Current: "240.00", Original: "380.00"},
			},
		},
	}
}

func weddingOccasion() Occasion {
	return Occasion{
		ID:    "wedding",
		Title: "Wedding figures",
		Styles: []Style{
			{
				ID: "Groom", Label: "Groom", Icon: "/images/occasion/wedding/wedding-groom.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Groom Photo"}},
			},
			{
				ID: "Bride", Label: "Bride", Icon: "/images/occasion/wedding/wedding-bride.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Bride Photo"}},
			},
			{
				ID: "Couple (holding hands)", Label: "Couple", Icon: "/images/occasion/wedding/wedding-couple-hands.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Couple Photo"}},
			},
			{
				ID: "Groom + Bride (2 photos)", Label: "Groom + Bride", Icon: "/images/occasion/wedding/wedding-groom-bride-2photos.png",
				Slots: []SlotSpec{{Role: RolePerson, Label: "Groom Photo"}, {Role: RolePerson, Label: "Bride Photo"}},
			},
			{
				ID: "Cake", Label: "Cake", Icon: "/images/occasion/wedding/wedding-cake.png",
				Slots:     []SlotSpec{{Role: RolePerson, Label: "Groom Photo"}, {Role: RolePerson, Label: "Bride Photo"}},
				Composite: true,
			},
		},
		Pricing: PriceTable{
			"4cm": {
				"Groom":                    {Current: "29.95", Original: "75.00"},
				"Bride":                    {Current: "29.95", Original: "75.00"},
				"Couple (holding hands)":   {Current: "55.95", Original: "120.00"},
				"Groom + Bride (2 photos)": {Current: "55.95", Original: "120.00"},
				"Cake":                     {Current: "29.95", Original: "75.00"},
			},
			"6cm": {
				"Groom":                    {Current: "39.95", Original: "100.00"},
				"Bride":                    {Current: "39.95", Original: "100.00"},
				"Couple (holding hands)":   {Current: "80.95", Original: "130.00"},
				"Groom + Bride (2 photos)": {Current: "75.95", Original: "189.00"},
				"Cake":                     {Current: "39.95", Original: "100.00"},
			},
			"8cm": {
				"Groom":                    {Current: "79.95", Original: "130.00"},
				"Bride":                    {Current: "79.95", Original: "130.00"},
				"Couple (holding hands)":   {Current: "155.00", Original: "250.00"},
				"Groom + Bride (2 photos)": {Current: "150.00", Original: "240.00"},
				"Cake":                     {Current: "79.95", Original: "130.00"},
			},
			"10cm": {
				"Groom":                    {Current: "120.00", Original: "200.00"},
				"Bride":                    {Current: "120.00", Original: "200.00"},
				"Couple (holding hands)":   {Current: "240.00", Original: "380.00"},
				"Groom + Bride (2 photos)": {Current: "240.00", Original: "380.00"},
				"Cake":                     {Current: "120.00", Original: "200.00"},
			},
		},
	}
}
