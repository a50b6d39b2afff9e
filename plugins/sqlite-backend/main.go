package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-plugin"

	remoteout "ansitzplaner/internal/modules/remote/adapter/out"
	"ansitzplaner/internal/modules/remote/adapter/out/rpc"
	"ansitzplaner/internal/platform/sqlitedb"
)

func main() {
	path := os.Getenv("ANSITZ_DRIVER_DB")
	if path == "" {
		path = "remote.db"
	}
	db, err := sqlitedb.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlite-backend: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	backend, err := remoteout.NewSQLiteBackend(context.Background(), db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlite-backend: %v\n", err)
		os.Exit(1)
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(remoteout.NewStoreServer(backend)),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
