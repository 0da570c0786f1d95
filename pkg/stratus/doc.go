// Package stratus provides types, interfaces, and helpers for working with
// the Stratus edge platform API.
//
// # Overview
//
// The stratus package defines the domain types (e.g., Zone, DNSRecord,
// Ruleset, Bucket, APIToken) and the interfaces for resource-oriented clients
// (e.g., ZonesClient, DNSRecordsClient). A concrete implementation of these
// clients is provided by the stratusclient package, which wires configuration,
// transport, authentication, and the request execution pipeline. Most
// consumers should import stratusclient to construct a client and then
// interact with the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/stratus-io/stratus-go/pkg/stratus"
//	  "github.com/stratus-io/stratus-go/pkg/stratusclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := stratusclient.New(&stratus.Config{
//	    APIEndpoint: "https://api.stratus.dev",
//	    APIToken:    "token",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of zones
//	  zones, err := cli.Zones().List(ctx, stratus.NewQueryParams().WithPerPage(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = zones
//	}
//
// # Request execution
//
// Every API call runs through a layered execution pipeline: a concurrency
// limiter bounds in-flight requests and queues a bounded overflow, a total
// deadline covers the whole operation including retries, idempotent requests
// that fail transiently are retried with exponential backoff, a circuit
// breaker sheds load from a persistently failing endpoint, and each network
// attempt carries its own timeout. The knobs live on Config; zero values
// select the documented defaults.
//
// # Queries and pagination
//
// Use QueryParams to express common list options (page, per_page, order_by,
// direction, filters). The package also provides helpers for iterating or
// collecting paginated results:
//
//	it := stratus.NewPaginationIterator(ctx, cli.Zones(), "/v4/zones", stratus.NewQueryParams())
//	for it.HasNext() {
//	  zone, err := it.Next()
//	  if err != nil { break }
//	  _ = zone
//	}
//
// or fetch all results at once:
//
//	all, err := stratus.FetchAllPages(ctx, cli.Zones(), "/v4/zones", nil, stratus.DefaultPaginationOptions())
//	if err != nil { /* handle error */ }
//	_ = all
//
// # Errors
//
// API errors are represented by APIError and ResponseError. Helpers such as
// IsNotFound, IsUnauthorized, and IsForbidden make it easy to branch on common
// API error cases. Failures produced by the execution pipeline itself wrap a
// small set of sentinel errors; IsRejected, IsTimeout, IsCircuitOpen, and
// IsCancelled distinguish a request that never reached the network from one
// that timed out, was shed by the breaker, or was cancelled by the caller.
//
// # Interceptors and caching
//
// The package includes generic building blocks such as request/response
// interceptors (for logging, auth headers, request IDs, metrics, rate
// limiting) and a pluggable Cache abstraction with in-memory and NATS
// key-value backends. The stratusclient package composes these pieces for a
// sensible default client; applications with advanced needs can also use
// these primitives directly.
//
// # Resources
//
// Resource clients follow a consistent CRUD-and-actions pattern across
// Stratus resources (Zones, DNSRecords, Rulesets, Buckets, Tokens, Accounts,
// AuditEvents, SecurityEvents). See the individual interfaces in client.go
// for the full surface area. BatchExecutor runs many operations against these
// clients with bounded concurrency.
package stratus
