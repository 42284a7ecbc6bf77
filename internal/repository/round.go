package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

const roundKeyPrefix = "round:"

type RoundRepository interface {
	CreateOrUpdate(ctx context.Context, round *entity.Round) error
	GetByID(ctx context.Context, id string) (*entity.Round, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbRound struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoundRepository - stores rounds as JSON under round:<id>. Every write
// refreshes the expiry; a zero ttl keeps rounds until they are deleted.
func NewRoundRepository(client *redis.Client, ttl time.Duration) RoundRepository {
	return &dbRound{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbRound) CreateOrUpdate(ctx context.Context, round *entity.Round) error {
	roundJSON, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("could not marshal round: %w", err)
	}

	if err = that.client.Set(ctx, roundKeyPrefix+round.ID, roundJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set round: %w", err)
	}

	return nil
}

func (that *dbRound) GetByID(ctx context.Context, id string) (*entity.Round, error) {
	response, err := that.client.Get(ctx, roundKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoundNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get round by id: %w", err)
	}

	var round entity.Round
	if err = json.Unmarshal([]byte(response), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round: %w", err)
	}

	if err = round.Validate(); err != nil {
		return nil, fmt.Errorf("stored round %s: %w", id, err)
	}

	return &round, nil
}

func (that *dbRound) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, roundKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete round by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrRoundNotFound
	}

	return nil
}
