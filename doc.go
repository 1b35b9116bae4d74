// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package restconf is a client library for the RESTCONF (HTTP +
// application/yang-data+json) management API of network routers.
//
// Different firmware revisions expose logically identical resources under
// different YANG model names and paths. The client hides this by probing an
// ordered list of candidate resource paths per operation and by normalizing
// the heterogeneous JSON field spellings (kebab-case YANG names, camelCase
// aliases) into stable typed records. Every operation returns a uniform
// Res envelope with success, data, error and message fields.
//
// Basic usage:
//
//	client, err := restconf.NewClient(
//	    "https://192.168.1.1",
//	    restconf.Username("admin"),
//	    restconf.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err) // configuration error
//	}
//
//	res, err := client.GetInterfaces(context.Background())
//	if err != nil {
//	    log.Fatal(res.Error)
//	}
//	for _, iface := range res.Data {
//	    fmt.Println(iface.Name, iface.OperStatus)
//	}
//
// TLS certificate verification is strict by default. The Insecure option
// disables it for lab use and logs a security warning; it is never the
// default.
//
// All operations are single stateless HTTP request/response units and are
// safe for concurrent use. The only stateful construct is Monitor, which
// polls aggregate traffic statistics on a fixed interval.
package restconf
