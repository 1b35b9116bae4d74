// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
)

// GetAclList retrieves and normalizes one ACL list by name.
func (c *Client) GetAclList(ctx context.Context, name string) (Res[AclList], error) {
	operation := fmt.Sprintf("get acl-list %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[AclList](err), err
	}

	probed, err := c.probe(ctx, operation, []string{aclListPath(name)}, c.RequestTimeout,
		"try 'show access-list' on the device CLI")
	if err != nil {
		return failRes[AclList](err), err
	}

	lists := parseAclLists(probed.Body)
	if len(lists) == 0 {
		err := noDataError(operation, "acl")
		return failRes[AclList](err), err
	}

	return okRes(lists[0], fmt.Sprintf("found acl-list %s with %d rules", lists[0].Name, len(lists[0].Rules))), nil
}

// buildAclListBody serializes an ACL list into its PUT payload. Zero-valued
// optional fields are omitted entirely.
func buildAclListBody(acl AclList) (string, error) {
	body := Body{}.Set("acl-list.0.name", acl.Name)
	for i, rule := range acl.Rules {
		base := fmt.Sprintf("acl-list.0.rules.rule.%d.", i)
		body = body.Set(base+"sequence", rule.Sequence)
		if rule.Action != "" {
			body = body.Set(base+"action", rule.Action)
		}
		if rule.Protocol != "" {
			body = body.Set(base+"protocol", rule.Protocol)
		}
		if rule.SrcAddress != "" {
			body = body.Set(base+"src-address", rule.SrcAddress)
		}
		if rule.DstAddress != "" {
			body = body.Set(base+"dst-address", rule.DstAddress)
		}
		if rule.SrcPortLower > 0 {
			body = body.Set(base+"src-port-lower", rule.SrcPortLower)
		}
		if rule.SrcPortUpper > 0 {
			body = body.Set(base+"src-port-upper", rule.SrcPortUpper)
		}
		if rule.DstPortLower > 0 {
			body = body.Set(base+"dst-port-lower", rule.DstPortLower)
		}
		if rule.DstPortUpper > 0 {
			body = body.Set(base+"dst-port-upper", rule.DstPortUpper)
		}
		if rule.TCPFlagsMask > 0 {
			body = body.Set(base+"tcp-flags-mask", rule.TCPFlagsMask)
		}
		if rule.TCPFlagsValue > 0 {
			body = body.Set(base+"tcp-flags-value", rule.TCPFlagsValue)
		}
		if rule.IcmpTypeLower > 0 || rule.IcmpTypeUpper > 0 {
			body = body.
				Set(base+"icmp-type-lower", rule.IcmpTypeLower).
				Set(base+"icmp-type-upper", rule.IcmpTypeUpper)
		}
		if rule.IcmpCodeLower > 0 || rule.IcmpCodeUpper > 0 {
			body = body.
				Set(base+"icmp-code-lower", rule.IcmpCodeLower).
				Set(base+"icmp-code-upper", rule.IcmpCodeUpper)
		}
	}
	return body.String()
}

// CreateAclList creates or replaces an ACL list via PUT against its single
// known path and echoes the input back on success.
func (c *Client) CreateAclList(ctx context.Context, acl AclList) (Res[AclList], error) {
	operation := fmt.Sprintf("create acl-list %s", acl.Name)

	if acl.Name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[AclList](err), err
	}

	body, err := buildAclListBody(acl)
	if err != nil {
		err = fmt.Errorf("%s: failed to build body: %w", operation, err)
		return failRes[AclList](err), err
	}

	if _, err := c.putData(ctx, operation, aclListPath(acl.Name), body); err != nil {
		return failRes[AclList](err), err
	}

	c.logger.Info(ctx, "acl-list created",
		"name", acl.Name,
		"rules", len(acl.Rules))

	return okRes(acl, fmt.Sprintf("acl-list %s created with %d rules", acl.Name, len(acl.Rules))), nil
}

// DeleteAclList removes an ACL list by name.
func (c *Client) DeleteAclList(ctx context.Context, name string) (Res[AclList], error) {
	operation := fmt.Sprintf("delete acl-list %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[AclList](err), err
	}

	if err := c.deleteData(ctx, operation, aclListPath(name)); err != nil {
		return failRes[AclList](err), err
	}

	c.logger.Info(ctx, "acl-list deleted", "name", name)

	return okRes(AclList{Name: name}, fmt.Sprintf("acl-list %s deleted", name)), nil
}
