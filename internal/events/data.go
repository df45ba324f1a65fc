package events

// Option lists offered by the filter dropdowns.
var (
	Regions    = []string{"Jerusalem", "North", "Haifa", "Center", "Tel Aviv", "South"}
	Cities     = []string{"Seattle", "Portland", "San Francisco", "Los Angeles"}
	EventTypes = []string{"Wedding", "Corporate", "Birthday", "Concert", "Sports"}
)

// SampleEvents returns a fresh copy of the listings the marketplace ships with.
func SampleEvents() []Event {
	out := make([]Event, len(sampleEvents))
	copy(out, sampleEvents)
	return out
}

var sampleEvents = []Event{
	{ID: 1, Name: "Summer Wedding Celebration", Type: "Wedding", Date: NewDay(2025, 6, 21), Address: "123 Beach Blvd", City: "San Francisco", Region: "California", ContactName: "Emily Johnson"},
	{ID: 2, Name: "Tech Conference 2025", Type: "Corporate", Date: NewDay(2025, 3, 15), Address: "456 Innovation Way", City: "Seattle", Region: "Washington", ContactName: "Michael Chen"},
	{ID: 3, Name: "Rock Festival Weekend", Type: "Concert", Date: NewDay(2025, 7, 4), Address: "789 Music Lane", City: "Los Angeles", Region: "California", ContactName: "Sarah Wilson"},
	{ID: 4, Name: "Charity Gala Dinner", Type: "Corporate", Date: NewDay(2025, 5, 20), Address: "321 Charity Ave", City: "New York", Region: "New York", ContactName: "David Miller"},
	{ID: 5, Name: "Outdoor Adventure Wedding", Type: "Wedding", Date: NewDay(2025, 8, 15), Address: "555 Mountain Rd", City: "Portland", Region: "Oregon", ContactName: "Rachel Green"},
	{ID: 6, Name: "Pro Basketball Championship", Type: "Sports", Date: NewDay(2025, 6, 10), Address: "888 Arena Blvd", City: "Los Angeles", Region: "California", ContactName: "Chris Thompson"},
	{ID: 7, Name: "Vintage Car Exhibition", Type: "Corporate", Date: NewDay(2025, 9, 5), Address: "222 Classic Rd", City: "San Francisco", Region: "California", ContactName: "Olivia Parker"},
	{ID: 8, Name: "Sweet Sixteen Extravaganza", Type: "Birthday", Date: NewDay(2025, 4, 12), Address: "777 Party Lane", City: "New York", Region: "New York", ContactName: "Sophia Martinez"},
	{ID: 9, Name: "Jazz Night Under the Stars", Type: "Concert", Date: NewDay(2025, 7, 25), Address: "444 Jazz Ave", City: "Portland", Region: "Oregon", ContactName: "Daniel White"},
	{ID: 10, Name: "Startup Pitch Competition", Type: "Corporate", Date: NewDay(2025, 2, 28), Address: "999 Venture St", City: "Seattle", Region: "Washington", ContactName: "Jennifer Lee"},
	{ID: 11, Name: "Winter Wonderland Wedding", Type: "Wedding", Date: NewDay(2025, 12, 12), Address: "101 Snowflake Rd", City: "Portland", Region: "Oregon", ContactName: "Ryan Frost"},
	{ID: 12, Name: "Marathon Championship", Type: "Sports", Date: NewDay(2025, 10, 10), Address: "303 Fitness Way", City: "Los Angeles", Region: "California", ContactName: "Michelle Carter"},
	{ID: 13, Name: "Corporate Leadership Summit", Type: "Corporate", Date: NewDay(2025, 11, 5), Address: "606 Executive Blvd", City: "San Francisco", Region: "California", ContactName: "Brian Taylor"},
	{ID: 14, Name: "Electronic Dance Festival", Type: "Concert", Date: NewDay(2025, 8, 20), Address: "707 Bass Lane", City: "New York", Region: "New York", ContactName: "Alex Johnson"},
	{ID: 15, Name: "Golden Anniversary Party", Type: "Birthday", Date: NewDay(2025, 9, 1), Address: "888 Memory Lane", City: "Seattle", Region: "Washington", ContactName: "Grace Wilson"},
	{ID: 16, Name: "Beachside Wedding Ceremony", Type: "Wedding", Date: NewDay(2025, 7, 10), Address: "234 Ocean Dr", City: "Los Angeles", Region: "California", ContactName: "Lucas Brown"},
	{ID: 17, Name: "Food & Wine Conference", Type: "Corporate", Date: NewDay(2025, 4, 18), Address: "543 Culinary Ave", City: "Portland", Region: "Oregon", ContactName: "Emma Davis"},
	{ID: 18, Name: "Pro Tennis Open", Type: "Sports", Date: NewDay(2025, 5, 30), Address: "876 Court Rd", City: "New York", Region: "New York", ContactName: "Kevin Adams"},
	{ID: 19, Name: "Country Music Night", Type: "Concert", Date: NewDay(2025, 6, 5), Address: "321 Harmony St", City: "San Francisco", Region: "California", ContactName: "Amanda Smith"},
	{ID: 20, Name: "Surprise 40th Birthday", Type: "Birthday", Date: NewDay(2025, 3, 22), Address: "654 Celebration Way", City: "Seattle", Region: "Washington", ContactName: "Nathan Young"},
	{ID: 21, Name: "Mountain Retreat Wedding", Type: "Wedding", Date: NewDay(2025, 9, 15), Address: "789 Alpine Way", City: "Portland", Region: "Oregon", ContactName: "Hannah Clark"},
	{ID: 22, Name: "Tech Product Launch", Type: "Corporate", Date: NewDay(2025, 1, 15), Address: "432 Future St", City: "Los Angeles", Region: "California", ContactName: "Ethan Moore"},
	{ID: 23, Name: "Charity Basketball Match", Type: "Sports", Date: NewDay(2025, 2, 14), Address: "765 Hoops Ave", City: "New York", Region: "New York", ContactName: "Jessica Hall"},
	{ID: 24, Name: "Classical Symphony Night", Type: "Concert", Date: NewDay(2025, 4, 5), Address: "987 Orchestra Ln", City: "San Francisco", Region: "California", ContactName: "William Brown"},
	{ID: 25, Name: "Milestone 1st Birthday", Type: "Birthday", Date: NewDay(2025, 5, 5), Address: "111 Rainbow Rd", City: "Portland", Region: "Oregon", ContactName: "Sophie Turner"},
	{ID: 26, Name: "Vineyard Wedding Experience", Type: "Wedding", Date: NewDay(2025, 10, 5), Address: "222 Grapevine Way", City: "Los Angeles", Region: "California", ContactName: "Oliver Martin"},
	{ID: 27, Name: "Annual Shareholder Meeting", Type: "Corporate", Date: NewDay(2025, 12, 1), Address: "333 Finance Blvd", City: "New York", Region: "New York", ContactName: "Natalie King"},
	{ID: 28, Name: "Surfing Championship", Type: "Sports", Date: NewDay(2025, 8, 8), Address: "444 Wave Cr", City: "San Francisco", Region: "California", ContactName: "Jake Wilson"},
	{ID: 29, Name: "Indie Music Festival", Type: "Concert", Date: NewDay(2025, 7, 18), Address: "555 Alternative Way", City: "Seattle", Region: "Washington", ContactName: "Lily Adams"},
	{ID: 30, Name: "Quinceañera Celebration", Type: "Birthday", Date: NewDay(2025, 11, 20), Address: "666 Tradition St", City: "Los Angeles", Region: "California", ContactName: "Maria Garcia"},
}
