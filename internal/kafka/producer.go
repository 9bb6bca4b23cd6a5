package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/kalpovskii/taskmanager/internal/app/models"
	"github.com/segmentio/kafka-go"
)

// Actions carried by Event.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Upper bound on how long a single event waits before the writer flushes it.
const batchTimeout = 10 * time.Millisecond

// Event is the JSON payload written to the task topic.
type Event struct {
	Action string      `json:"action"`
	TaskID string      `json:"task_id"`
	Task   models.Task `json:"task"`
	Time   time.Time   `json:"time"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	now    func() time.Time
}

func NewProducer(broker, topic string) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	})
}

func newProducer(w messageWriter) *Producer {
	return &Producer{writer: w, now: time.Now}
}

// SendEvent publishes a task lifecycle event keyed by task id, so every event
// of one task lands on the same partition. Failures are logged, not returned.
func (p *Producer) SendEvent(ctx context.Context, action string, task models.Task) {
	now := p.now()
	ev := Event{
		Action: action,
		TaskID: task.ID.String(),
		Task:   task,
		Time:   now,
	}

	value, err := json.Marshal(ev)
	if err != nil {
		log.Println("failed to encode kafka event:", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.TaskID),
		Value: value,
		Time:  now,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Println("failed to write kafka message:", err)
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// DecodeEvent parses a message value produced by SendEvent.
func DecodeEvent(value []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(value, &ev)
	return ev, err
}
