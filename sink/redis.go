package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sensors "github.com/bitflow-stream/go-app-sensors"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "app-sensors"

// RedisSink publishes readings on one channel per sensor and keeps the registered
// sensors in a hash.
type RedisSink struct {
	Client *redis.Client
	Prefix string
}

var _ sensors.Sink = new(RedisSink)

func NewRedisSink(ctx context.Context, addr string, prefix string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %v: %w", addr, err)
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSink{Client: client, Prefix: prefix}, nil
}

func (s *RedisSink) String() string {
	return "redis " + s.Client.Options().Addr
}

func (s *RedisSink) SensorsKey() string {
	return s.Prefix + ":sensors"
}

func (s *RedisSink) Channel(sensorID string) string {
	return s.Prefix + ":" + sensorID
}

func (s *RedisSink) RegisterSensors(ctx context.Context, descs []sensors.Descriptor) error {
	values := make(map[string]interface{}, len(descs))
	for _, sensor := range descs {
		data, err := json.Marshal(NewSensorRegistration(sensor))
		if err != nil {
			return err
		}
		values[sensor.ID] = string(data)
	}
	return s.Client.HSet(ctx, s.SensorsKey(), values).Err()
}

func (s *RedisSink) UpdateSensors(ctx context.Context, readings []sensors.Reading) error {
	pipe := s.Client.Pipeline()
	for _, reading := range readings {
		data, err := json.Marshal(NewSensorState(reading))
		if err != nil {
			return err
		}
		pipe.Publish(ctx, s.Channel(reading.Sensor.ID), string(data))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSink) Close() error {
	return s.Client.Close()
}
