// Package ocioracle implements oracle.OCIOracle on top of
// go-containerregistry's crane package, resolving docker:// uses
// references to content digests for the unpinned-uses and
// cache-poisoning audits (spec §4.9, §6.2). crane is the library the
// retrieved frizbee example pulls in for the same class of problem
// (resolving GitHub Actions/Docker references to immutable digests).
package ocioracle

import (
	"context"
	"fmt"

	"github.com/google/go-containerregistry/pkg/crane"

	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/oracle/cache"
)

// Client implements oracle.OCIOracle using crane.Digest, with an
// in-memory cache keyed by "image:tag" so repeated lookups across
// workflows in one audit run don't re-hit the registry (spec §5 "Shared
// resources").
type Client struct {
	digests *cache.Memory[string]
}

// New builds an OCI oracle client.
func New() *Client {
	return &Client{digests: cache.NewMemory[string]()}
}

// ResolveDigest implements oracle.OCIOracle.
func (c *Client) ResolveDigest(ctx context.Context, image, tag string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, oracle.RequestTimeout)
		defer cancel()
	}
	ref := image
	if tag != "" {
		ref = image + ":" + tag
	}
	return c.digests.GetOrCompute(ref, func() (string, error) {
		digest, err := crane.Digest(ref, crane.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("ocioracle: resolving digest for %s: %w", ref, err)
		}
		return digest, nil
	})
}
