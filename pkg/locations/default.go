package locations

const pacific = "America/Los_Angeles"

func fallback(lat, long float64) *Point {
	return &Point{lat, long}
}

// Default is the built-in list of west coast tide pools.
var Default = []Location{
	{"Point Loma Tide Pools", "San Diego", "CA", Point{32.6731, -117.2425}, "9410170", fallback(32.7157, -117.1611), pacific},
	{"Crystal Cove State Park", "Laguna Beach", "CA", Point{33.5665, -117.8090}, "9410580", fallback(33.5427, -117.7854), pacific},
	{"Leo Carrillo State Park", "Malibu", "CA", Point{34.0453, -118.9358}, "9410230", fallback(34.0259, -118.7798), pacific},
	{"Santa Rosa Island Tide Pools", "Channel Islands National Park", "CA", Point{33.9950, -120.0805}, "9410840", fallback(34.0147, -119.6982), pacific},
	{"Point Lobos State Natural Reserve", "Carmel", "CA", Point{36.5159, -121.9480}, "9413450", fallback(36.5552, -121.9233), pacific},
	{"Cape Perpetua Tide Pools", "Yachats", "OR", Point{44.2811, -124.1089}, "9432780", fallback(44.3118, -124.1037), pacific},
	{"Kalaloch Beach Tide Pools", "Forks", "WA", Point{47.6136, -124.3740}, "9437540", fallback(47.7109, -124.4154), pacific},
	{"Shi Shi Beach Tide Pools", "Neah Bay", "WA", Point{48.3687, -124.6252}, "9443090", fallback(48.3686, -124.6247), pacific},
	{"Ecola State Park Tide Pools", "Cannon Beach", "OR", Point{45.9273, -123.9788}, "9435380", fallback(45.8918, -123.9615), pacific},
	{"Cape Kiwanda Tide Pools", "Pacific City", "OR", Point{45.2100, -123.9680}, "9435385", fallback(45.2028, -123.9624), pacific},
	{"Second Beach Tide Pools", "La Push", "WA", Point{47.9023, -124.6356}, "9444090", fallback(47.9133, -124.6361), pacific},
}
