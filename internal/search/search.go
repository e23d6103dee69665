package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/models"
)

const DefaultIndex = "items"

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// Client wraps the ES index used for item-name search. A nil Client disables
// indexing and makes every search fall back to the SQL filter.
type Client struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.Status())
	}

	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}
	return &Client{es: es, index: index}, nil
}

type itemDoc struct {
	ID      uint      `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

func (c *Client) IndexItem(ctx context.Context, item *models.Item) error {
	if c == nil {
		return nil
	}

	var buf bytes.Buffer
	doc := itemDoc{ID: item.ID, Name: item.Name, OwnerID: item.OwnerID}
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := c.es.Index(
		c.index,
		&buf,
		c.es.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index item: %s", res.Status())
	}
	return nil
}

func (c *Client) RemoveItem(ctx context.Context, itemID uint) error {
	if c == nil {
		return nil
	}

	res, err := c.es.Delete(
		c.index,
		strconv.FormatUint(uint64(itemID), 10),
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove item: %s", res.Status())
	}
	return nil
}

// searchLimit caps one page at the ES result window; a tenant's inventory
// fits in one page.
const searchLimit = 10000

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// searchBody builds a case-insensitive substring query over the item name,
// owner-filtered, matching the filter the SQL path applies. Without an
// explicit size ES would return only its default 10 hits.
func searchBody(ownerID uuid.UUID, query string) map[string]any {
	return map[string]any{
		"size": searchLimit,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"wildcard": map[string]any{
						"name.keyword": map[string]any{
							"value":            "*" + wildcardEscaper.Replace(query) + "*",
							"case_insensitive": true,
						},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{
						"owner_id": ownerID.String(),
					},
				},
			},
		},
	}
}

// SearchItemIDs returns ids of the caller's items whose name contains the
// query. The caller re-reads the rows from the store, so a stale index can
// never leak another tenant's data.
func (c *Client) SearchItemIDs(ctx context.Context, ownerID uuid.UUID, query string) ([]uint, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(ownerID, query)); err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search items: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source itemDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return ids, nil
}
