// VulcanizeDB
// Copyright © 2018 Vulcanize

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package discovery enumerates the subdomains of an ENS name from the
// registry's NewOwner history and resolves names to their current records.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vulcanize/ens_explorer/labels"
	"github.com/vulcanize/ens_explorer/models"
	"github.com/vulcanize/ens_explorer/utils"
)

var log = logging.Logger("discovery")

// Chain reads discovery depends on. *chain.Registry implements it.
type Registry interface {
	Owner(ctx context.Context, node common.Hash) (common.Address, error)
	Resolver(ctx context.Context, node common.Hash) (common.Address, error)
	Addr(ctx context.Context, resolver common.Address, node common.Hash) (common.Address, error)
	Content(ctx context.Context, resolver common.Address, node common.Hash) (common.Hash, error)
	NewOwnerEvents(ctx context.Context, parent common.Hash, fromBlock uint64) ([]models.EventRecord, error)
}

type Discoverer struct {
	registry       Registry
	decrypter      labels.Decrypter
	checker        labels.Checker
	startBlock     uint64
	precedence     labels.Precedence
	concurrency    int
	isolateDetails bool
	metrics        *Metrics
}

type Option func(*Discoverer)

// WithPrecedence picks the label source that wins when both resolve a hash differently
func WithPrecedence(p labels.Precedence) Option {
	return func(d *Discoverer) {
		d.precedence = p
	}
}

// WithConcurrency caps the chain calls in flight per stage. 0 means no cap.
func WithConcurrency(n int) Option {
	return func(d *Discoverer) {
		d.concurrency = n
	}
}

// WithIsolatedDetailFailures keeps a record without addr and content when its
// resolver lookups fail, instead of failing the whole call
func WithIsolatedDetailFailures() Option {
	return func(d *Discoverer) {
		d.isolateDetails = true
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Discoverer) {
		d.metrics = m
	}
}

// NewDiscoverer wires the pipeline. startBlock is the first block that can
// hold registry events on the network registry talks to.
func NewDiscoverer(registry Registry, decrypter labels.Decrypter, checker labels.Checker, startBlock uint64, opts ...Option) *Discoverer {
	d := &Discoverer{
		registry:   registry,
		decrypter:  decrypter,
		checker:    checker,
		startBlock: startBlock,
		precedence: labels.LocalFirst,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscoverSubdomains lists the direct subdomains of name that still have an
// owner, most recently changed first. Any collaborator failure fails the call.
func (d *Discoverer) DiscoverSubdomains(ctx context.Context, name string) (records []*models.SubdomainRecord, err error) {
	defer func(start time.Time) { d.metrics.observe("subdomains", start, err) }(time.Now())

	name, err = utils.Normalize(name)
	if err != nil {
		return nil, err
	}
	parentNode := utils.NameHash(name)

	events, err := d.registry.NewOwnerEvents(ctx, parentNode, d.startBlock)
	if err != nil {
		return nil, fmt.Errorf("fetch NewOwner events for %s: %w", name, err)
	}
	latest := Dedup(events)
	log.Debugw("deduplicated events", "name", name, "events", len(events), "labels", len(latest))
	if len(latest) == 0 {
		return []*models.SubdomainRecord{}, nil
	}

	resolved, err := d.resolveLabels(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("resolve labels under %s: %w", name, err)
	}

	assembled, err := d.enrich(ctx, name, latest, resolved)
	if err != nil {
		return nil, fmt.Errorf("look up subdomains of %s: %w", name, err)
	}

	records = DropAbandoned(assembled)
	if err := d.attachResolverDetails(ctx, records); err != nil {
		return nil, fmt.Errorf("read resolver records under %s: %w", name, err)
	}

	unresolved := 0
	for _, record := range assembled {
		if !record.Decrypted {
			unresolved++
		}
	}
	d.metrics.count("kept", len(records))
	d.metrics.count("abandoned", len(assembled)-len(records))
	d.metrics.count("unresolved", unresolved)
	log.Debugw("discovered subdomains", "name", name, "kept", len(records), "abandoned", len(assembled)-len(records), "unresolved", unresolved)

	return records, nil
}

// ResolveRootDomain reads owner, resolver and, when a resolver is set, the
// resolver records of a single name
func (d *Discoverer) ResolveRootDomain(ctx context.Context, name string) (record *models.SubdomainRecord, err error) {
	defer func(start time.Time) { d.metrics.observe("lookup", start, err) }(time.Now())

	name, err = utils.Normalize(name)
	if err != nil {
		return nil, err
	}
	node := utils.NameHash(name)
	label, parent := utils.SplitName(name)

	var owner, resolver common.Address
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owner, err = d.registry.Owner(gctx, node)
		return err
	})
	g.Go(func() error {
		var err error
		resolver, err = d.registry.Resolver(gctx, node)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("look up %s: %w", name, err)
	}

	record = &models.SubdomainRecord{
		Decrypted:  true,
		Label:      label,
		LabelHash:  utils.LabelHash(label),
		ParentName: parent,
		Name:       name,
		Owner:      owner,
		Resolver:   resolver,
		Children:   []*models.SubdomainRecord{},
	}
	if utils.IsNull(resolver) {
		return record, nil
	}
	if err := d.attachDetails(ctx, record, node); err != nil {
		return nil, fmt.Errorf("read resolver records of %s: %w", name, err)
	}
	return record, nil
}

// resolveLabels asks the remote and local sources at the same time and merges
// their answers. The result lines up with events; "" marks an unresolved hash.
func (d *Discoverer) resolveLabels(ctx context.Context, events []models.EventRecord) ([]string, error) {
	hashes := make([]common.Hash, len(events))
	for i, event := range events {
		hashes[i] = event.LabelHash
	}

	var remote, local []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		remote, err = d.decrypter.DecryptHashes(gctx, hashes...)
		if err != nil {
			return fmt.Errorf("decrypt label hashes: %w", err)
		}
		if len(remote) != len(hashes) {
			return fmt.Errorf("decrypt label hashes: %w", labels.ErrMisalignedLabels)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		local, err = d.checker.CheckLabels(hashes...)
		if err != nil {
			return fmt.Errorf("check known labels: %w", err)
		}
		if len(local) != len(hashes) {
			return fmt.Errorf("check known labels: %w", labels.ErrMisalignedLabels)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return labels.Merge(local, remote, d.precedence)
}

// enrich reads current owners for resolved labels and resolvers for every
// label, then assembles one record per event in the same order
func (d *Discoverer) enrich(ctx context.Context, parentName string, events []models.EventRecord, resolved []string) ([]*models.SubdomainRecord, error) {
	owners := make([]common.Address, len(events))
	resolvers := make([]common.Address, len(events))

	g, gctx := d.group(ctx)
	for i := range events {
		i := i
		// a recovered label may itself contain dots, so nodes come from the hashes
		node := utils.CreateSubnode(events[i].ParentNode, events[i].LabelHash)
		if resolved[i] != "" {
			g.Go(func() error {
				owner, err := d.registry.Owner(gctx, node)
				owners[i] = owner
				return err
			})
		}
		g.Go(func() error {
			resolver, err := d.registry.Resolver(gctx, node)
			resolvers[i] = resolver
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]*models.SubdomainRecord, len(events))
	for i, event := range events {
		record := &models.SubdomainRecord{
			LabelHash:  event.LabelHash,
			ParentName: parentName,
			Resolver:   resolvers[i],
			Children:   []*models.SubdomainRecord{},
		}
		if resolved[i] == "" {
			record.Label = labels.Placeholder(event.LabelHash)
			record.Owner = event.Owner
		} else {
			record.Decrypted = true
			record.Label = resolved[i]
			record.Owner = owners[i]
		}
		record.Name = record.Label + "." + parentName
		records[i] = record
	}
	return records, nil
}

// attachResolverDetails fills addr and content for every decrypted record that has a resolver
func (d *Discoverer) attachResolverDetails(ctx context.Context, records []*models.SubdomainRecord) error {
	g, gctx := d.group(ctx)
	for _, record := range records {
		record := record
		if utils.IsNull(record.Resolver) || !record.Decrypted {
			continue
		}
		node := utils.CreateSubnode(utils.NameHash(record.ParentName), record.LabelHash)
		g.Go(func() error {
			return d.attachDetails(gctx, record, node)
		})
	}
	return g.Wait()
}

func (d *Discoverer) attachDetails(ctx context.Context, record *models.SubdomainRecord, node common.Hash) error {
	var addr common.Address
	var content common.Hash

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		addr, err = d.registry.Addr(gctx, record.Resolver, node)
		return err
	})
	g.Go(func() error {
		var err error
		content, err = d.registry.Content(gctx, record.Resolver, node)
		return err
	})
	if err := g.Wait(); err != nil {
		if d.isolateDetails {
			log.Warnw("skipping resolver records", "name", record.Name, "resolver", record.Resolver.Hex(), "err", err)
			return nil
		}
		return fmt.Errorf("%s: %w", record.Name, err)
	}

	record.Addr = &addr
	record.Content = &content
	return nil
}

func (d *Discoverer) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if d.concurrency > 0 {
		g.SetLimit(d.concurrency)
	}
	return g, gctx
}
