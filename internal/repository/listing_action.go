package repository

import (
	"encoding/json"

	"github.com/olivere/elastic/v7"
	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

type ListingActionRepository interface {
	GetActions(contract string, tokenId uint64, size, page int) ([]entity.ListingAction, int64, error)
	GetActionsByType(actionType entity.ActionType, size, page int) ([]entity.ListingAction, int64, error)
}

type listingActionRepository struct {
	elastic elastic_search.Index
}

func NewListingActionRepository(elastic elastic_search.Index) ListingActionRepository {
	return listingActionRepository{elastic}
}

func (r listingActionRepository) GetActions(contract string, tokenId uint64, size, page int) ([]entity.ListingAction, int64, error) {
	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("contract.keyword", contract),
		elastic.NewTermQuery("tokenId", tokenId),
	)

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.ListingActionIndex.Get()).
		Query(query).
		Sort("time", false).
		Size(size).
		From((page-1)*size))

	return r.findMany(result, err)
}

func (r listingActionRepository) GetActionsByType(actionType entity.ActionType, size, page int) ([]entity.ListingAction, int64, error) {
	query := elastic.NewTermQuery("action.keyword", string(actionType))

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.ListingActionIndex.Get()).
		Query(query).
		Sort("time", false).
		Size(size).
		From((page-1)*size))

	return r.findMany(result, err)
}

func (r listingActionRepository) findMany(results *elastic.SearchResult, err error) ([]entity.ListingAction, int64, error) {
	actions := make([]entity.ListingAction, 0)

	if err != nil {
		return actions, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var action entity.ListingAction
		if err := json.Unmarshal(hit.Source, &action); err == nil {
			actions = append(actions, action)
		}
	}

	return actions, results.TotalHits(), nil
}
