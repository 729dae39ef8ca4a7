package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
)

const TopicRegistrations = "customer-registrations"

// RegistrationConsumer feeds registration requests arriving on Kafka into
// the registration service, as an alternative intake next to the HTTP API.
type RegistrationConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	log    *logger.Logger
}

func NewRegistrationConsumer(brokers []string, groupID string, log *logger.Logger) (*RegistrationConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &RegistrationConsumer{
		group:  group,
		topics: []string{TopicRegistrations},
		log:    log,
	}, nil
}

// ConsumeRegistrations blocks until ctx is cancelled, invoking handler for
// every decoded registration request.
func (c *RegistrationConsumer) ConsumeRegistrations(ctx context.Context, handler func(context.Context, *models.CustomerRegistrationRequest) error) error {
	consumerHandler := &RegistrationConsumerHandler{Handler: handler, Log: c.log}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.group.Consume(ctx, c.topics, consumerHandler); err != nil {
				c.log.Error("KAFKA", fmt.Sprintf("Error consuming registrations: %v", err))
				return err
			}
		}
	}
}

func (c *RegistrationConsumer) Close() error {
	return c.group.Close()
}

// RegistrationConsumerHandler is exported for testing.
type RegistrationConsumerHandler struct {
	Handler func(context.Context, *models.CustomerRegistrationRequest) error
	Log     *logger.Logger
}

func (h *RegistrationConsumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *RegistrationConsumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *RegistrationConsumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var req models.CustomerRegistrationRequest
		if err := json.Unmarshal(message.Value, &req); err != nil {
			h.Log.Error("KAFKA", fmt.Sprintf("Failed to unmarshal registration request: %v", err))
			session.MarkMessage(message, "")
			continue
		}

		if err := req.Validate(); err != nil {
			h.Log.Warn("KAFKA", fmt.Sprintf("Dropping invalid registration request: %v", err))
			session.MarkMessage(message, "")
			continue
		}

		if err := h.Handler(session.Context(), &req); err != nil {
			// Registration failures are terminal for the message; redelivery
			// would hit the same validation or uniqueness verdict.
			h.Log.Warn("KAFKA", fmt.Sprintf("Registration via Kafka rejected: %v", err))
		}

		session.MarkMessage(message, "")
	}
	return nil
}
