// Command controlplane runs the REST front door: scene upload, render
// task submission and averaged-render retrieval. Grounded on
// control_panel/src/main.rs's Cli/startup.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/mertwole/pathtracer/blobstore"
	"github.com/mertwole/pathtracer/controlplane"
	"github.com/mertwole/pathtracer/renderstore"
)

func envOrFlag(flagValue, envName string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envName)
}

func main() {
	mongodbURL := flag.String("mongodb-url", "", "MongoDB connection string (env MONGODB_URL)")
	rabbitmqURL := flag.String("rabbitmq-url", "", "RabbitMQ connection string (env RABBITMQ_URL)")
	rabbitmqQueue := flag.String("rabbitmq-queue", "", "RabbitMQ queue name (env RABBITMQ_QUEUE)")
	appEndpoint := flag.String("app-endpoint", "", "HTTP listen address (env APP_ENDPOINT)")
	flag.Parse()

	ctx := context.Background()

	blobs, err := blobstore.Connect(ctx, envOrFlag(*mongodbURL, "MONGODB_URL"))
	if err != nil {
		log.Fatalf("controlplane: %v", err)
	}
	renders, err := renderstore.Connect(ctx, envOrFlag(*mongodbURL, "MONGODB_URL"))
	if err != nil {
		log.Fatalf("controlplane: %v", err)
	}

	server := &controlplane.Server{
		Blobs:       blobs,
		Renders:     renders,
		BrokerURL:   envOrFlag(*rabbitmqURL, "RABBITMQ_URL"),
		BrokerQueue: envOrFlag(*rabbitmqQueue, "RABBITMQ_QUEUE"),
	}

	endpoint := envOrFlag(*appEndpoint, "APP_ENDPOINT")
	log.Printf("controlplane: listening on %s", endpoint)
	log.Fatal(http.ListenAndServe(endpoint, server.Router()))
}
