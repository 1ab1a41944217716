package handler

import (
	"eventhub/config"
	"eventhub/di"
	"eventhub/shared/logger"
	"net/http"
	"os"
	"sync"
)

var (
	app  http.Handler
	once sync.Once
)

// Handler serves the whole API from a single serverless function. The
// dependency graph is built on the first invocation and reused afterwards.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetOutput(cfg, os.Stdout)
		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	app.ServeHTTP(w, r)
}
