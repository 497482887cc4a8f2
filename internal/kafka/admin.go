package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrInvalidTopic = errors.New("invalid topic spec")

// TopicSpec is the layout of a topic this module owns.
type TopicSpec struct {
	Name        string
	Partitions  int
	Replication int
	Retention   time.Duration
}

// AuditTopic keeps a week of mutation events. Events are keyed by entity,
// so three partitions keep one entity's history in order.
func AuditTopic(name string) TopicSpec {
	return TopicSpec{Name: name, Partitions: 3, Replication: 1, Retention: 7 * 24 * time.Hour}
}

func (s TopicSpec) validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidTopic)
	case s.Partitions < 1:
		return fmt.Errorf("%w: %s needs at least one partition", ErrInvalidTopic, s.Name)
	case s.Replication < 1:
		return fmt.Errorf("%w: %s needs a replication factor of at least one", ErrInvalidTopic, s.Name)
	}
	return nil
}

func (s TopicSpec) config() kafka.TopicConfig {
	tc := kafka.TopicConfig{
		Topic:             s.Name,
		NumPartitions:     s.Partitions,
		ReplicationFactor: s.Replication,
	}
	if s.Retention > 0 {
		tc.ConfigEntries = append(tc.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: strconv.FormatInt(s.Retention.Milliseconds(), 10),
		})
	}
	return tc
}

// EnsureTopic creates spec's topic through the cluster controller unless
// broker already knows it.
func EnsureTopic(ctx context.Context, broker string, spec TopicSpec) error {
	if err := spec.validate(); err != nil {
		return err
	}

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	if parts, err := conn.ReadPartitions(spec.Name); err == nil && len(parts) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to get controller: %w", err)
	}
	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	admin, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to controller %s: %w", addr, err)
	}
	defer admin.Close()

	err = admin.CreateTopics(spec.config())
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("failed to create topic %s: %w", spec.Name, err)
	}
	return nil
}
