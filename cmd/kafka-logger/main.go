package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/kalpovskii/taskmanager/internal/config"
	taskkafka "github.com/kalpovskii/taskmanager/internal/kafka"
	"github.com/segmentio/kafka-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateKafkaLogger(); err != nil {
		log.Fatal(err)
	}

	file, err := os.OpenFile(cfg.KafkaLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer file.Close()

	logger := log.New(file, "", log.LstdFlags)
	logger.Println("Kafka Logger started")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   cfg.KafkaTopic,
		GroupID: "kafka-logger-group",
	})
	defer r.Close()

	for {
		m, err := r.ReadMessage(context.Background())
		if err == io.EOF {
			return
		}
		if err != nil {
			logger.Printf("error reading message: %v\n", err)
			continue
		}

		logger.Println(formatEvent(m.Value, time.Now()))
	}
}

// formatEvent renders one task event as a log line. Values that are not task
// events are logged raw.
func formatEvent(value []byte, now time.Time) string {
	ev, err := taskkafka.DecodeEvent(value)
	if err != nil || ev.Action == "" {
		return fmt.Sprintf("[%s] %s", now.Format(time.RFC3339), value)
	}
	if ev.Action == taskkafka.ActionDeleted {
		return fmt.Sprintf("[%s] task %s deleted", ev.Time.Format(time.RFC3339), ev.TaskID)
	}
	return fmt.Sprintf("[%s] task %s %s title=%q status=%s",
		ev.Time.Format(time.RFC3339), ev.TaskID, ev.Action, ev.Task.Title, ev.Task.Status)
}
