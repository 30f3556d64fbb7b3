package main

import "github.com/adanyl0v/go-task-manager/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadConfig()
	app.MustInitApplicationLogger()

	app.MustInitTracing()
	defer app.ShutdownTracing()

	app.MustOpenStorage()
	defer app.CloseStorage()

	app.MustListenAndServeHTTP()
}
