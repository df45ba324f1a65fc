package events

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapCenter is where the map opens and where events in unknown cities land.
var MapCenter = Coordinates{Lat: 31.0461, Lng: 34.8516}

var cityCoordinates = map[string]Coordinates{
	"Jerusalem":  {Lat: 31.7683, Lng: 35.2137},
	"Tel Aviv":   {Lat: 32.0853, Lng: 34.7818},
	"Haifa":      {Lat: 32.7940, Lng: 34.9896},
	"Beer Sheva": {Lat: 31.2518, Lng: 34.7913},
	"Eilat":      {Lat: 29.5577, Lng: 34.9519},
}

func CoordinatesFor(city string) Coordinates {
	if c, ok := cityCoordinates[city]; ok {
		return c
	}
	return MapCenter
}

// Marker is one pin on the events map.
type Marker struct {
	EventID  int         `json:"eventId"`
	Name     string      `json:"name"`
	City     string      `json:"city"`
	Position Coordinates `json:"position"`
}

func Markers(events []Event) []Marker {
	out := make([]Marker, 0, len(events))
	for _, ev := range events {
		out = append(out, Marker{
			EventID:  ev.ID,
			Name:     ev.Name,
			City:     ev.City,
			Position: CoordinatesFor(ev.City),
		})
	}
	return out
}
