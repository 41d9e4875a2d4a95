package dex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/allyswap/route-engine/internal/domain"
)

// maxResponseBytes caps indexer responses; a snapshot for a handful of
// tokens is well under this.
const maxResponseBytes = 8 << 20

func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

func joinTokenIDs(ids []domain.TokenID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
