package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

var (
	ErrStateNotFound = errors.New("market state not found")
)

type MarketStateRepository interface {
	GetState() (entity.MarketState, error)
}

type marketStateRepository struct {
	elastic elastic_search.Index
}

func NewMarketStateRepository(elastic elastic_search.Index) MarketStateRepository {
	return marketStateRepository{elastic}
}

func (r marketStateRepository) GetState() (entity.MarketState, error) {
	var state entity.MarketState

	result, err := r.elastic.GetClient().
		Get().
		Index(elastic_search.MarketStateIndex.Get()).
		Id(state.Slug()).
		Do(context.Background())
	if err != nil {
		return state, ErrStateNotFound
	}

	if !result.Found {
		return state, ErrStateNotFound
	}

	err = json.Unmarshal(result.Source, &state)

	return state, err
}
