package messenger

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/zildex/zilliqa-nft-marketplace/internal/config"
	"go.uber.org/zap"
)

// MessageService publishes to the notification queues. Consumption is the
// observers' side; no consumer runs in this service.
type MessageService interface {
	SendMessage(item Item, body []byte) error
}

type Messenger struct {
	sqs *sqs.SQS
}

type Item string

var (
	ListingCreated   Item = "listing.created"
	PriceUpdated     Item = "price.updated"
	ListingCancelled Item = "listing.cancelled"
	ItemSold         Item = "item.sold"
	FeeWithdrawn     Item = "fee.withdrawn"
)

func (i Item) queue() string {
	name := strings.ReplaceAll(string(i), ".", "-")
	return config.Get().Aws.QueuePrefix + "-" + name
}

func NewMessenger() MessageService {
	cfg := config.Get().Aws

	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, cfg.Token),
	}))

	return &Messenger{sqs: sqs.New(sess)}
}

func (m Messenger) SendMessage(item Item, body []byte) error {
	queueUrl, err := m.queueUrl(item)
	if err != nil {
		return err
	}

	_, err = m.sqs.SendMessage(&sqs.SendMessageInput{
		MessageBody: aws.String(string(body)),
		QueueUrl:    queueUrl,
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("[Queue] Failed to publish message")
		return err
	}

	zap.L().With(zap.String("queue", item.queue())).Info("[Queue] Published message")

	return nil
}

func (m Messenger) queueUrl(item Item) (*string, error) {
	output, err := m.sqs.GetQueueUrl(&sqs.GetQueueUrlInput{
		QueueName: aws.String(item.queue()),
	})
	if err != nil {
		return nil, err
	}

	return output.QueueUrl, nil
}
