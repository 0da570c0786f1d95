// Package stratusclient provides the primary entry point for constructing a
// Stratus API client that implements the stratus.Client interface.
//
// It layers configuration, HTTP transport, authentication, and the request
// execution pipeline on top of the resource interfaces and types defined in
// the stratus package. Most applications should import stratusclient to build
// a client, then use the returned stratus.Client to access resource-specific
// clients, for example Zones(), DNSRecords(), Buckets(), etc.
//
// Quick start
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
//
//	  // Minimal: just an API endpoint (no auth).
//	  cli, err := stratusclient.New(&stratus.Config{APIEndpoint: "https://api.stratus.dev"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an API token you already have:
//	  cli, err = stratusclient.New(&stratus.Config{
//	    APIEndpoint: "https://api.stratus.dev",
//	    APIToken:    "v4_token_...", // bearer token
//	  })
//
//	  // Or with service token credentials. The client exchanges them at
//	  // <endpoint>/v4/auth/token (or Config.TokenURL when set) and refreshes
//	  // the resulting token automatically before it expires.
//	  cli, err = stratusclient.New(&stratus.Config{
//	    APIEndpoint:   "https://api.stratus.dev",
//	    ServiceID:     "service-id",
//	    ServiceSecret: "service-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the stratus.Client interface
//	  zones, err := cli.Zones().List(ctx, stratus.NewQueryParams().WithPerPage(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = zones
//	}
//
// # TLS and development mode
//
// For local development, you can set Config.SkipTLSVerify=true. This is gated
// by the environment variable STRATUS_DEV_MODE to avoid accidental insecure
// usage in production environments.
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithAPIToken, and NewWithServiceToken that wrap New with the appropriate
// configuration.
package stratusclient
