// Command worker consumes render tasks off the durable queue and
// renders them. Grounded on worker/src/lib.rs's Cli/startup.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mertwole/pathtracer/blobstore"
	"github.com/mertwole/pathtracer/broker"
	"github.com/mertwole/pathtracer/renderstore"
	"github.com/mertwole/pathtracer/workerruntime"
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
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := blobstore.Connect(ctx, envOrFlag(*mongodbURL, "MONGODB_URL"))
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
	renders, err := renderstore.Connect(ctx, envOrFlag(*mongodbURL, "MONGODB_URL"))
	if err != nil {
		log.Fatalf("worker: %v", err)
	}

	conn, err := broker.Connect(envOrFlag(*rabbitmqURL, "RABBITMQ_URL"), envOrFlag(*rabbitmqQueue, "RABBITMQ_QUEUE"))
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
	defer conn.Close()

	w := workerruntime.New(blobs, renders)
	log.Println("worker: consuming render tasks")
	if err := w.Run(ctx, conn, ""); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
