package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const courierGeoKey = "courier:locations"

// CourierPresence keeps the couriers' live availability in redis: a TTL'd
// presence key per courier plus a geo set for distance display. Going offline
// or letting the key expire both read as offline.
type CourierPresence struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCourierPresence(client *redis.Client, ttl time.Duration) *CourierPresence {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CourierPresence{Client: client, TTL: ttl}
}

func presenceKey(courierID int64) string {
	return "courier:online:" + strconv.FormatInt(courierID, 10)
}

func (p *CourierPresence) SetAvailability(ctx context.Context, courierID int64, online bool, lat, lng *float64) error {
	key := presenceKey(courierID)
	if !online {
		if err := p.Client.Del(ctx, key).Err(); err != nil {
			return err
		}
		return p.Client.ZRem(ctx, courierGeoKey, strconv.FormatInt(courierID, 10)).Err()
	}
	if err := p.Client.Set(ctx, key, "1", p.TTL).Err(); err != nil {
		return err
	}
	if lat != nil && lng != nil {
		return p.Client.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
			Name:      strconv.FormatInt(courierID, 10),
			Latitude:  *lat,
			Longitude: *lng,
		}).Err()
	}
	return nil
}

func (p *CourierPresence) IsOnline(ctx context.Context, courierID int64) (bool, error) {
	res, err := p.Client.Exists(ctx, presenceKey(courierID)).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

// Position returns the courier's last reported location, nil when unknown.
func (p *CourierPresence) Position(ctx context.Context, courierID int64) (*redis.GeoPos, error) {
	positions, err := p.Client.GeoPos(ctx, courierGeoKey, strconv.FormatInt(courierID, 10)).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}
	return positions[0], nil
}
