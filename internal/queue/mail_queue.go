package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SeakMengs/Annotator/internal/mailer"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type MailJobPayload struct {
	ToEmail      string          `json:"to_email"`
	ToUsername   string          `json:"to_username"`
	TemplateFile string          `json:"template_file"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    string          `json:"created_at"`
	Try          int             `json:"try"`
}

func NewMailJobPayload[T any](toUsername, toEmail, templateFile string, data T) (MailJobPayload, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return MailJobPayload{}, fmt.Errorf("failed to marshal data: %w", err)
	}

	return MailJobPayload{
		ToEmail:      toEmail,
		ToUsername:   toUsername,
		TemplateFile: templateFile,
		Data:         dataBytes,
		Try:          0,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func NewCollectionInviteMailJob(toUsername, toEmail string, data mailer.CollectionInviteData) (MailJobPayload, error) {
	return NewMailJobPayload(toUsername, toEmail, mailer.COLLECTION_INVITE_TEMPLATE, data)
}

// MailPublisher hands mail jobs to the mail consumer.
type MailPublisher interface {
	PublishMailJob(ctx context.Context, job MailJobPayload) error
}

func (r *RabbitMQ) PublishMailJob(ctx context.Context, job MailJobPayload) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}

	return r.Publish(ctx, QueueMail, body)
}

// MailJobHandler returns whether a failed job is worth retrying.
type MailJobHandler func(ctx context.Context, job MailJobPayload) (bool, error)

func NewMailJobHandler(client mailer.Client) MailJobHandler {
	return func(ctx context.Context, job MailJobPayload) (bool, error) {
		switch job.TemplateFile {
		case mailer.COLLECTION_INVITE_TEMPLATE:
			var data mailer.CollectionInviteData
			if err := json.Unmarshal(job.Data, &data); err != nil {
				return false, fmt.Errorf("failed to unmarshal CollectionInviteData: %w", err)
			}

			status, err := client.Send(job.TemplateFile, job.ToUsername, job.ToEmail, data)
			if err != nil {
				return true, fmt.Errorf("failed to send email: %w", err)
			}

			// 0 means mail is disabled
			if status != 0 && (status < 200 || status >= 300) {
				return true, fmt.Errorf("email sending failed with status: %d", status)
			}

			return false, nil
		default:
			return false, fmt.Errorf("unsupported template: %s", job.TemplateFile)
		}
	}
}

// jobQueue is the part of RabbitMQ a worker needs.
type jobQueue interface {
	Publish(ctx context.Context, routingKey QueueName, body []byte) error
	Ack(delivery amqp.Delivery) error
	Nack(delivery amqp.Delivery, requeue bool) error
}

func (r *RabbitMQ) ConsumeMailJob(ctx context.Context, handler MailJobHandler, maxWorker int, logger *zap.SugaredLogger) error {
	msgs, err := r.Consume(QueueMail)
	if err != nil {
		return fmt.Errorf("failed to start consuming mail jobs: %w", err)
	}

	for i := 0; i < maxWorker; i++ {
		go func(workerNumber int) {
			runMailWorker(ctx, r, logger, workerNumber, msgs, handler)
		}(i + 1)
	}

	return nil
}

func runMailWorker(ctx context.Context, q jobQueue, logger *zap.SugaredLogger, workerNumber int, msgs <-chan amqp.Delivery, handler MailJobHandler) {
	for {
		select {
		case <-ctx.Done():
			logger.Infof("[Mail Worker %d] Shutting down", workerNumber)
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Infof("[Mail Worker %d] Message channel closed", workerNumber)
				return
			}
			processMailJob(ctx, q, logger, workerNumber, msg, handler)
		}
	}
}

func processMailJob(ctx context.Context, q jobQueue, logger *zap.SugaredLogger, workerNumber int, msg amqp.Delivery, handler MailJobHandler) {
	if len(msg.Body) == 0 {
		logger.Warnf("[Mail Worker %d] Received empty message body", workerNumber)
		q.Nack(msg, false)
		return
	}

	var job MailJobPayload
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.Warnf("[Mail Worker %d] Invalid payload: %v", workerNumber, err)
		q.Nack(msg, false)
		return
	}

	workerPrefix := fmt.Sprintf("[Mail Worker %d: Retry %d]", workerNumber, job.Try)

	shouldRequeue, err := handler(ctx, job)
	if err != nil {
		logger.Warnf("%s Failed mail job for recipient: %s, template: %s: %v", workerPrefix, job.ToEmail, job.TemplateFile, err)

		if !shouldRequeue || job.Try >= MAX_QUEUE_RETRY {
			logger.Errorf("%s Dropping mail job for recipient: %s after %d tries", workerPrefix, job.ToEmail, job.Try)
			q.Nack(msg, false)
			return
		}

		requeueMailJob(ctx, q, logger, workerPrefix, msg, job)
		return
	}

	logger.Infof("%s Sent mail job for recipient: %s, template: %s", workerPrefix, job.ToEmail, job.TemplateFile)
	q.Ack(msg)
}

// requeueMailJob publishes a copy with Try incremented, then acks the original.
func requeueMailJob(ctx context.Context, q jobQueue, logger *zap.SugaredLogger, workerPrefix string, msg amqp.Delivery, job MailJobPayload) {
	job.Try++
	body, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("%s Failed to marshal mail payload for requeue: %v", workerPrefix, err)
		q.Nack(msg, false)
		return
	}

	if err := q.Publish(ctx, QueueMail, body); err != nil {
		logger.Errorf("%s Failed to requeue mail job for recipient: %s: %v", workerPrefix, job.ToEmail, err)
		q.Nack(msg, false)
		return
	}

	q.Ack(msg)
}
