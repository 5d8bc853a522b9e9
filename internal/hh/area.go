package hh

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
)

// AreaResolver maps a human-entered place name to the provider's
// numeric area code. The full region tree is fetched once and cached in
// a local file with no expiry; staleness is an accepted tradeoff for
// not re-downloading the tree on every run.
type AreaResolver struct {
	fetcher   PageFetcher
	cachePath string
	log       *zap.Logger
}

func NewAreaResolver(fetcher PageFetcher, cachePath string, log *zap.Logger) *AreaResolver {
	return &AreaResolver{fetcher: fetcher, cachePath: cachePath, log: log}
}

// ResolveAreaID returns the area code for the name, or "0" when the
// name is unknown or the tree cannot be obtained. Never fails hard: an
// unresolved area just widens the search to everywhere.
func (r *AreaResolver) ResolveAreaID(ctx context.Context, name string) string {
	tree, ok := r.loadCache()
	if !ok {
		body, err := r.fetcher.FetchPage(ctx, "areas", url.Values{})
		if err != nil {
			r.log.Warn("area tree fetch failed", zap.Error(err))
			return "0"
		}
		tree, err = decodeAreaTree(body)
		if err != nil {
			r.log.Warn("area tree unparseable", zap.Error(err))
			return "0"
		}
		if err := r.saveCache(tree); err != nil {
			r.log.Warn("area cache write failed", zap.String("path", r.cachePath), zap.Error(err))
			return "0"
		}
	}
	return findAreaID(tree, name)
}

// loadCache reads the cached tree. A missing or corrupt cache is not an
// error, it just triggers a re-fetch.
func (r *AreaResolver) loadCache() ([]areaNode, bool) {
	b, err := os.ReadFile(r.cachePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Warn("area cache unreadable", zap.String("path", r.cachePath), zap.Error(err))
		}
		return nil, false
	}
	tree, err := decodeAreaTree(b)
	if err != nil {
		r.log.Warn("area cache corrupt, refetching", zap.String("path", r.cachePath), zap.Error(err))
		return nil, false
	}
	return tree, true
}

func (r *AreaResolver) saveCache(tree []areaNode) error {
	f, err := os.Create(r.cachePath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tree); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rawAreaNode defers decoding of children so one malformed element
// cannot take its well-formed siblings down with it.
type rawAreaNode struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Areas []json.RawMessage `json:"areas"`
}

// decodeAreaTree accepts both a list of nodes and a single node.
// Malformed elements anywhere in the tree are dropped, not fatal.
func decodeAreaTree(b []byte) ([]areaNode, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(b, &list); err == nil {
		return decodeAreaNodes(list), nil
	}
	var single rawAreaNode
	if err := json.Unmarshal(b, &single); err != nil {
		return nil, err
	}
	return []areaNode{{ID: single.ID, Name: single.Name, Areas: decodeAreaNodes(single.Areas)}}, nil
}

func decodeAreaNodes(raws []json.RawMessage) []areaNode {
	nodes := make([]areaNode, 0, len(raws))
	for _, r := range raws {
		var rn rawAreaNode
		if err := json.Unmarshal(r, &rn); err != nil {
			continue
		}
		nodes = append(nodes, areaNode{ID: rn.ID, Name: rn.Name, Areas: decodeAreaNodes(rn.Areas)})
	}
	return nodes
}

// findAreaID is a pre-order depth-first search: current node before its
// children, siblings in list order, first case-insensitive exact match
// on the trimmed name wins.
func findAreaID(nodes []areaNode, name string) string {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return "0"
	}
	return searchAreas(nodes, target)
}

func searchAreas(nodes []areaNode, target string) string {
	for _, n := range nodes {
		if n.Name != "" && strings.ToLower(strings.TrimSpace(n.Name)) == target {
			if n.ID == "" {
				return "0"
			}
			return n.ID
		}
		if id := searchAreas(n.Areas, target); id != "0" {
			return id
		}
	}
	return "0"
}
