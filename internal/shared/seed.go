package shared

// SeedRoom is one room type the seeder provisions, with the ledger total for
// every night in the seed range. Capacity is guests per room; TotalRooms is
// how many rooms of the type exist.
type SeedRoom struct {
	ID          string
	Name        string
	Description string
	Capacity    int
	TotalRooms  int
}

var SeedRooms = []SeedRoom{
	{
		ID:          "room_1",
		Name:        "Classic Room",
		Description: "Comfortable room with a queen bed, work desk and city view.",
		Capacity:    2,
		TotalRooms:  20,
	},
	{
		ID:          "room_2",
		Name:        "Deluxe Suite",
		Description: "Spacious suite with a separate living area and king bed.",
		Capacity:    3,
		TotalRooms:  10,
	},
	{
		ID:          "room_3",
		Name:        "Executive Suite",
		Description: "Top-floor suite with panoramic views, lounge access and two bedrooms.",
		Capacity:    4,
		TotalRooms:  5,
	},
}
