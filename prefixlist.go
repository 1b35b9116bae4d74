// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
)

// prefixListCLIHint is the remediation hint for failed prefix-list probes
const prefixListCLIHint = "try 'show ip prefix-list' on the device CLI"

// GetPrefixLists retrieves and normalizes all prefix-lists.
func (c *Client) GetPrefixLists(ctx context.Context) (Res[[]PrefixList], error) {
	const operation = "get prefix-lists"

	probed, err := c.probe(ctx, operation, prefixListCandidates, c.RequestTimeout, prefixListCLIHint)
	if err != nil {
		return failRes[[]PrefixList](err), err
	}

	lists := parsePrefixLists(probed.Body)
	if len(lists) == 0 {
		err := noDataError(operation, "prefix-list")
		return failRes[[]PrefixList](err), err
	}

	res := okRes(lists, fmt.Sprintf("found %d prefix-lists", len(lists)))
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}

// GetPrefixList retrieves one prefix-list by name.
func (c *Client) GetPrefixList(ctx context.Context, name string) (Res[PrefixList], error) {
	operation := fmt.Sprintf("get prefix-list %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[PrefixList](err), err
	}

	probed, err := c.probe(ctx, operation, []string{prefixListPath(name)}, c.RequestTimeout, prefixListCLIHint)
	if err != nil {
		return failRes[PrefixList](err), err
	}

	lists := parsePrefixLists(probed.Body)
	if len(lists) == 0 {
		err := noDataError(operation, "prefix-list")
		return failRes[PrefixList](err), err
	}

	return okRes(lists[0], fmt.Sprintf("found prefix-list %s with %d rules", lists[0].Name, len(lists[0].Rules))), nil
}

// buildPrefixListBody serializes a prefix-list into its PUT payload
func buildPrefixListBody(pl PrefixList) (string, error) {
	body := Body{}.Set("prefix-list.0.name", pl.Name)
	for i, rule := range pl.Rules {
		base := fmt.Sprintf("prefix-list.0.rules.rule.%d.", i)
		body = body.
			Set(base+"sequence", rule.Sequence).
			Set(base+"action", rule.Action).
			Set(base+"prefix", rule.Prefix)
		if rule.GE > 0 {
			body = body.Set(base+"ge", rule.GE)
		}
		if rule.LE > 0 {
			body = body.Set(base+"le", rule.LE)
		}
	}
	return body.String()
}

// CreatePrefixList creates or replaces a prefix-list via PUT against its
// single known path. Write targets are assumed stable, so no fallback list
// is probed. On success the echoed-back input is returned, not a re-fetch
// of server state; PUT semantics make the call idempotent for identical
// rules.
func (c *Client) CreatePrefixList(ctx context.Context, pl PrefixList) (Res[PrefixList], error) {
	operation := fmt.Sprintf("create prefix-list %s", pl.Name)

	if pl.Name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[PrefixList](err), err
	}

	body, err := buildPrefixListBody(pl)
	if err != nil {
		err = fmt.Errorf("%s: failed to build body: %w", operation, err)
		return failRes[PrefixList](err), err
	}

	if _, err := c.putData(ctx, operation, prefixListPath(pl.Name), body); err != nil {
		return failRes[PrefixList](err), err
	}

	c.logger.Info(ctx, "prefix-list created",
		"name", pl.Name,
		"rules", len(pl.Rules))

	return okRes(pl, fmt.Sprintf("prefix-list %s created with %d rules", pl.Name, len(pl.Rules))), nil
}

// DeletePrefixList removes a prefix-list by name. Success carries no
// payload beyond the echoed name.
func (c *Client) DeletePrefixList(ctx context.Context, name string) (Res[PrefixList], error) {
	operation := fmt.Sprintf("delete prefix-list %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[PrefixList](err), err
	}

	if err := c.deleteData(ctx, operation, prefixListPath(name)); err != nil {
		return failRes[PrefixList](err), err
	}

	c.logger.Info(ctx, "prefix-list deleted", "name", name)

	return okRes(PrefixList{Name: name}, fmt.Sprintf("prefix-list %s deleted", name)), nil
}

// Network is one network derived from a prefix-list rule
type Network struct {
	// Name is the owning prefix-list name
	Name string `json:"name"`

	// Prefix is the rule's network prefix
	Prefix string `json:"prefix"`

	// Action is the rule's permit/deny action
	Action string `json:"action,omitempty"`

	// Sequence is the rule's sequence number
	Sequence int `json:"sequence,omitempty"`
}

// GetNetworks lists networks, derived from the rules of all prefix-lists.
func (c *Client) GetNetworks(ctx context.Context) (Res[[]Network], error) {
	const operation = "get networks"

	probed, err := c.probe(ctx, operation, prefixListCandidates, c.RequestTimeout, prefixListCLIHint)
	if err != nil {
		return failRes[[]Network](err), err
	}

	var networks []Network
	for _, pl := range parsePrefixLists(probed.Body) {
		for _, rule := range pl.Rules {
			if rule.Prefix == "" {
				continue
			}
			networks = append(networks, Network{
				Name:     pl.Name,
				Prefix:   rule.Prefix,
				Action:   rule.Action,
				Sequence: rule.Sequence,
			})
		}
	}

	if len(networks) == 0 {
		err := noDataError(operation, "network")
		return failRes[[]Network](err), err
	}

	res := okRes(networks, fmt.Sprintf("found %d networks", len(networks)))
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}
