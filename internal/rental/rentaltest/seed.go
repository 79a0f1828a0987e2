package rentaltest

import (
	"fmt"
	"time"

	"github.com/five82/hearth/internal/rental"
)

var seedCities = []rental.City{
	{Name: "Paris", Location: rental.Location{Latitude: 48.85661, Longitude: 2.351499, Zoom: 13}},
	{Name: "Cologne", Location: rental.Location{Latitude: 50.938361, Longitude: 6.959974, Zoom: 13}},
	{Name: "Brussels", Location: rental.Location{Latitude: 50.846557, Longitude: 4.351697, Zoom: 13}},
	{Name: "Amsterdam", Location: rental.Location{Latitude: 52.37454, Longitude: 4.897976, Zoom: 13}},
	{Name: "Hamburg", Location: rental.Location{Latitude: 53.550341, Longitude: 10.000654, Zoom: 13}},
	{Name: "Dusseldorf", Location: rental.Location{Latitude: 51.225402, Longitude: 6.776314, Zoom: 13}},
}

var seedTypes = []string{"apartment", "room", "house", "hotel"}

var seedGoods = []string{"Wi-Fi", "Heating", "Kitchen", "Washing machine", "Coffee machine", "Dishwasher", "Towels", "Baby seat", "Cable TV"}

// DefaultSeed returns a deterministic data set with four offers per city,
// a couple of reviews per offer and two offers sharing one spot in Paris.
func DefaultSeed() Seed {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	seed := Seed{Reviews: make(map[string][]rental.Review)}
	n := 0
	for ci, city := range seedCities {
		for i := 0; i < 4; i++ {
			n++
			id := fmt.Sprintf("%d", n)
			loc := rental.Location{
				Latitude:  city.Location.Latitude + float64(i)*0.0071 - 0.01,
				Longitude: city.Location.Longitude + float64((i*3)%4)*0.0053 - 0.008,
				Zoom:      16,
			}
			if ci == 0 && i == 3 {
				// Same building as offer 1.
				loc = seed.Offers[0].Location
			}
			offer := rental.Offer{
				ID:          id,
				Title:       fmt.Sprintf("%s %s #%d", titleFor(i), city.Name, i+1),
				Type:        seedTypes[(ci+i)%len(seedTypes)],
				Price:       80 + ((n*37)%9)*35,
				Rating:      float64(1 + (n*7)%5),
				IsPremium:   n%3 == 0,
				Bedrooms:    1 + n%4,
				MaxAdults:   2 + n%5,
				PreviewURL:  fmt.Sprintf("https://example.invalid/img/%d.jpg", n),
				Images:      []string{fmt.Sprintf("https://example.invalid/img/%d-1.jpg", n), fmt.Sprintf("https://example.invalid/img/%d-2.jpg", n)},
				Description: "A quiet place near the old town, a short walk from the river and the central station.",
				Goods:       seedGoods[n%3 : n%3+5],
				Host:        rental.Host{Name: hostFor(n), AvatarURL: fmt.Sprintf("https://example.invalid/avatar/%d.jpg", n%5), IsPro: n%2 == 0},
				City:        city,
				Location:    loc,
			}
			seed.Offers = append(seed.Offers, offer)
			for k := 0; k < 1+n%3; k++ {
				seed.Reviews[id] = append(seed.Reviews[id], rental.Review{
					ID:      fmt.Sprintf("r%d-%d", n, k),
					Date:    base.Add(time.Duration(n*24+k*7) * time.Hour).Format(time.RFC3339),
					User:    rental.ReviewUser{Name: hostFor(n + k + 1), IsPro: k%2 == 1},
					Comment: "The house is very good, very happy, hygienic and simple living conditions around it are also very good.",
					Rating:  1 + (n+k)%5,
				})
			}
		}
	}
	return seed
}

func titleFor(i int) string {
	return []string{"Beautiful & luxurious studio in", "Wood and stone place in", "Canal view loft in", "Nice, cozy, warm big bed room in"}[i%4]
}

func hostFor(n int) string {
	return []string{"Angelina", "Max", "Isaac", "Oliver", "Zoe"}[n%5]
}
