package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
)

const (
	TopicPayments  = "payment-events"
	TopicCustomers = "customer-events"
	TopicAccounts  = "account-events"
)

// Producer publishes domain events. In mock mode it only logs, so the
// service runs without a broker.
type Producer struct {
	producer sarama.SyncProducer
	mockMode bool
	log      *logger.Logger
}

func NewProducer(brokers []string, mockMode bool, log *logger.Logger) (*Producer, error) {
	if mockMode {
		log.LogKafka("MOCK_MODE", "producer", "Running in mock mode - no actual Kafka connection")
		return &Producer{mockMode: true, log: log}, nil
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	log.LogKafka("CONNECTED", "producer", fmt.Sprintf("Connected to Kafka brokers: %v", brokers))
	return &Producer{producer: producer, log: log}, nil
}

func (p *Producer) PublishPaymentCharged(payment *models.Payment) error {
	event := &models.Event{
		Type:      models.EventPaymentCharged,
		Timestamp: time.Now(),
		Payment:   payment,
	}
	return p.publish(TopicPayments, payment.ID.String(), event)
}

func (p *Producer) PublishCustomerRegistered(customer *models.Customer) error {
	event := &models.Event{
		Type:      models.EventCustomerRegistered,
		Timestamp: time.Now(),
		Customer:  customer,
	}
	return p.publish(TopicCustomers, customer.ID.String(), event)
}

func (p *Producer) PublishAccountCreated(account *models.Account) error {
	event := &models.Event{
		Type:      models.EventAccountCreated,
		Timestamp: time.Now(),
		Account:   account,
	}
	return p.publish(TopicAccounts, account.ID.String(), event)
}

func (p *Producer) publish(topic, key string, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if p.mockMode {
		p.log.LogKafka("MOCK_PUBLISH", topic, fmt.Sprintf("Mock publishing %s for key %s", event.Type, key))
		return nil
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error("KAFKA", fmt.Sprintf("Failed to send message to topic %s: %v", topic, err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.log.LogKafka("PUBLISHED", topic, fmt.Sprintf("%s sent to partition %d at offset %d", event.Type, partition, offset))
	return nil
}

func (p *Producer) Close() error {
	if p.mockMode {
		p.log.LogKafka("MOCK_CLOSE", "producer", "Mock producer closed")
		return nil
	}
	if p.producer != nil {
		p.log.LogKafka("CLOSING", "producer", "Closing Kafka producer connection")
		return p.producer.Close()
	}
	return nil
}
