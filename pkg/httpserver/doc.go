// Package httpserver runs an http.Handler with graceful shutdown.
//
// Server binds its listener before serving, so listen errors are returned
// from Run synchronously (wrapped with ErrStart) and Addr reports the real
// address even when the configured port is 0. Run returns when its context
// is done, when an interrupt or TERM signal arrives, or after Shutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// HealthHandler serves JSON liveness and readiness probes.
package httpserver
