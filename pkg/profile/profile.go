// Package profile serves the runtime profiles of the daemon.
package profile

import (
	"net"
	"net/http"
	"net/http/pprof"
)

const PathPrefix = "/debug/pprof/"

func Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(PathPrefix, pprof.Index)
	mux.HandleFunc(PathPrefix+"cmdline", pprof.Cmdline)
	mux.HandleFunc(PathPrefix+"profile", pprof.Profile)
	mux.HandleFunc(PathPrefix+"symbol", pprof.Symbol)
	mux.HandleFunc(PathPrefix+"trace", pprof.Trace)

	for _, name := range []string{"goroutine", "heap", "threadcreate", "block", "mutex", "allocs"} {
		mux.Handle(PathPrefix+name, pprof.Handler(name))
	}
	return mux
}

func Serve(lis net.Listener) error {
	return http.Serve(lis, Handler())
}
