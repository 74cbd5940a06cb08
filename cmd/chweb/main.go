// chweb serves the admin API for access-control rules, filtering hosts,
// settings and allow/block counters.
//
//	@title						chweb API
//	@version					1.0
//	@description				Admin API for access-control rules, filtering hosts, settings and allow/block counters.
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				User API key; the session cookie is also accepted
//
//	@securityDefinitions.apikey	HostKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				Host API key
package main

//go:generate swag init --generalInfo main.go --dir .,../../internal/handler --output ../../docs --outputTypes go --parseInternal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
