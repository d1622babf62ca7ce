// Package handler exposes the API as a single http.HandlerFunc for
// serverless platforms that invoke one function per request.
package handler

import (
	"hotelops/config"
	"hotelops/di"
	"hotelops/shared/logger"
	"net/http"
	"sync"
)

// app is built on the first invocation and reused while the instance stays warm.
var app = sync.OnceValue(func() http.Handler {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	return di.InitializeService()
})

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	app().ServeHTTP(w, r)
}
