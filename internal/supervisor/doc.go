// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package supervisor runs the long-lived parts of the server under a
suture v4 supervisor tree.

The tree has three layers so that a crash in one does not take down the
others:

	data-layer     periodic DuckDB checkpoints
	worker-layer   the legacy SQLite import
	api-layer      the HTTP server

Supervisor events (restarts, backoff, panics) are logged through
sutureslog into the same zerolog output as the rest of the process, via
logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

Service wrappers live in the services subpackage. Each implements
suture.Service and fmt.Stringer so suture logs name the service.
*/
package supervisor
