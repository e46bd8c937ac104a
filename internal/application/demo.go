package application

import (
	"fmt"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/jaswdr/faker"
)

// DemoPools is the fixed fallback set shown when no pool is active.
func DemoPools(now time.Time) []domain.Pool {
	base := now.UnixMilli()

	return []domain.Pool{
		{
			ID:               domain.PoolID(fmt.Sprintf("demo-%d", base)),
			Platform:         domain.PlatformInstamart,
			CreatorID:        "amit@example.com",
			CreatorName:      "Amit",
			Items:            []string{"Fruits", "Juice", "Snacks", "Tea", "Coffee"},
			JoinedUsers:      []domain.UserID{"demo1@example.com"},
			MaxUsers:         5,
			EstimatedSavings: 150,
			ExpiresAt:        now.Add(25 * time.Minute),
		},
		{
			ID:               domain.PoolID(fmt.Sprintf("demo-%d", base+1)),
			Platform:         domain.PlatformBlinkit,
			CreatorID:        "rahul@example.com",
			CreatorName:      "Rahul",
			Items:            []string{"Milk", "Bread", "Eggs", "Chips"},
			JoinedUsers:      []domain.UserID{},
			MaxUsers:         4,
			EstimatedSavings: 120,
			ExpiresAt:        now.Add(15 * time.Minute),
		},
		{
			ID:               domain.PoolID(fmt.Sprintf("demo-%d", base+2)),
			Platform:         domain.PlatformZepto,
			CreatorID:        "priya@example.com",
			CreatorName:      "Priya",
			Items:            []string{"Maggi", "Cold Drinks", "Biscuits"},
			JoinedUsers:      []domain.UserID{"demo2@example.com"},
			MaxUsers:         3,
			EstimatedSavings: 90,
			ExpiresAt:        now.Add(8 * time.Minute),
		},
	}
}

var randomPlatforms = []string{
	string(domain.PlatformBlinkit),
	string(domain.PlatformZepto),
	string(domain.PlatformInstamart),
}

// RandomPools builds n extra demo pools for exercising the dashboard with more data.
func RandomPools(f faker.Faker, now time.Time, n int) []domain.Pool {
	pools := make([]domain.Pool, 0, n)
	for i := 0; i < n; i++ {
		first := f.Person().FirstName()
		email := fmt.Sprintf("%s%d@example.com", first, f.IntBetween(1, 999))

		items := make([]string, 0, 6)
		for j := f.IntBetween(0, 6); j > 0; j-- {
			if j%2 == 0 {
				items = append(items, f.Food().Fruit())
			} else {
				items = append(items, f.Food().Vegetable())
			}
		}

		maxUsers := f.IntBetween(2, 6)
		members := []domain.UserID{domain.UserID(email)}

		pools = append(pools, domain.Pool{
			ID:               domain.PoolID(fmt.Sprintf("demo-%d-%d", now.UnixMilli(), i)),
			Platform:         domain.Platform(f.RandomStringElement(randomPlatforms)),
			CreatorID:        email,
			CreatorName:      first,
			Items:            items,
			JoinedUsers:      members,
			MaxUsers:         maxUsers,
			EstimatedSavings: float64(f.IntBetween(3, 20) * 10),
			ExpiresAt:        now.Add(time.Duration(f.IntBetween(2, 45)) * time.Minute),
		})
	}
	return pools
}
