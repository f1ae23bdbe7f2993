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

package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/vulcanize/ens_explorer/chain/constants"
	"github.com/vulcanize/ens_explorer/utils"
)

// Write calls take a caller-built TransactOpts; signing never happens here.

var ErrNoResolver = errors.New("chain: name has no resolver")

func (r *Registry) SetOwner(ctx context.Context, opts *bind.TransactOpts, name string, owner common.Address) (*types.Transaction, error) {
	return r.registry.Transact(withContext(ctx, opts), "setOwner", [32]byte(utils.NameHash(name)), owner)
}

// SetSubnodeOwner assigns label.parent to owner. Only the owner of parent may do this.
func (r *Registry) SetSubnodeOwner(ctx context.Context, opts *bind.TransactOpts, label, parent string, owner common.Address) (*types.Transaction, error) {
	node := utils.NameHash(parent)
	return r.registry.Transact(withContext(ctx, opts), "setSubnodeOwner", [32]byte(node), [32]byte(utils.LabelHash(label)), owner)
}

func (r *Registry) SetResolver(ctx context.Context, opts *bind.TransactOpts, name string, resolver common.Address) (*types.Transaction, error) {
	return r.registry.Transact(withContext(ctx, opts), "setResolver", [32]byte(utils.NameHash(name)), resolver)
}

// SetAddr writes the address record on the resolver currently set for name
func (r *Registry) SetAddr(ctx context.Context, opts *bind.TransactOpts, name string, addr common.Address) (*types.Transaction, error) {
	node := utils.NameHash(name)
	resolver, err := r.requireResolver(ctx, name, node)
	if err != nil {
		return nil, err
	}
	return r.resolverContract(resolver).Transact(withContext(ctx, opts), "setAddr", [32]byte(node), addr)
}

// SetContent writes the content hash record on the resolver currently set for name
func (r *Registry) SetContent(ctx context.Context, opts *bind.TransactOpts, name string, content common.Hash) (*types.Transaction, error) {
	node := utils.NameHash(name)
	resolver, err := r.requireResolver(ctx, name, node)
	if err != nil {
		return nil, err
	}
	return r.resolverContract(resolver).Transact(withContext(ctx, opts), "setContent", [32]byte(node), [32]byte(content))
}

// CreateSubdomain assigns label.parent to the transacting account
func (r *Registry) CreateSubdomain(ctx context.Context, opts *bind.TransactOpts, label, parent string) (*types.Transaction, error) {
	return r.SetSubnodeOwner(ctx, opts, label, parent, opts.From)
}

// DeleteSubdomain releases label.parent. A subdomain with a resolver is first
// taken over by the transacting account so its resolver can be cleared, and each
// of those transactions is mined before the next one is sent.
func (r *Registry) DeleteSubdomain(ctx context.Context, opts *bind.TransactOpts, label, parent string) (*types.Transaction, error) {
	name := label + "." + parent
	resolver, err := r.Resolver(ctx, utils.NameHash(name))
	if err != nil {
		return nil, err
	}
	if !utils.IsNull(resolver) {
		tx, err := r.SetSubnodeOwner(ctx, opts, label, parent, opts.From)
		if err != nil {
			return nil, err
		}
		if err := r.waitMined(ctx, tx); err != nil {
			return nil, err
		}
		tx, err = r.SetResolver(ctx, opts, name, utils.NullAddress)
		if err != nil {
			return nil, err
		}
		if err := r.waitMined(ctx, tx); err != nil {
			return nil, err
		}
	}
	return r.SetSubnodeOwner(ctx, opts, label, parent, utils.NullAddress)
}

// ClaimReverseRecord claims addr.reverse for the transacting account and points it at resolver
func (r *Registry) ClaimReverseRecord(ctx context.Context, opts *bind.TransactOpts, resolver common.Address) (*types.Transaction, error) {
	reverseRegistrar, err := r.Owner(ctx, utils.NameHash(constants.ReverseRegistrarName))
	if err != nil {
		return nil, err
	}
	if utils.IsNull(reverseRegistrar) {
		return nil, fmt.Errorf("%s has no owner on %s", constants.ReverseRegistrarName, r.network.Name)
	}
	contract := bind.NewBoundContract(reverseRegistrar, r.reverseAbi, r.backend, r.backend, r.backend)
	return contract.Transact(withContext(ctx, opts), "claimWithResolver", opts.From, resolver)
}

// SetReverseName points the reverse record of the transacting account at name.
// The account must have claimed its reverse record with resolver first.
func (r *Registry) SetReverseName(ctx context.Context, opts *bind.TransactOpts, resolver common.Address, name string) (*types.Transaction, error) {
	node := utils.NameHash(utils.ReverseName(opts.From))
	return r.resolverContract(resolver).Transact(withContext(ctx, opts), "setName", [32]byte(node), name)
}

func (r *Registry) requireResolver(ctx context.Context, name string, node common.Hash) (common.Address, error) {
	resolver, err := r.Resolver(ctx, node)
	if err != nil {
		return common.Address{}, err
	}
	if utils.IsNull(resolver) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNoResolver, name)
	}
	return resolver, nil
}

func (r *Registry) waitMined(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, r.backend, tx)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}
	return nil
}

func withContext(ctx context.Context, opts *bind.TransactOpts) *bind.TransactOpts {
	withCtx := *opts
	withCtx.Context = ctx
	return &withCtx
}
